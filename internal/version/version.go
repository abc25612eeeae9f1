package version

const Version = "v0.0.1"
