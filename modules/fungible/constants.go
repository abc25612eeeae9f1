package fungible

const (
	Version   = "v0.0.1"
	DBVersion = 1
)
