package postgres

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type contractModel struct {
	ContractId  string
	Ticker      string
	Name        string
	Precision   int16
	SupplyKnown pgtype.Bool
	CreatedAt   pgtype.Timestamptz
}

type issueModel struct {
	NodeId               string
	ContractId           string
	Amount               pgtype.Numeric
	Closes               []byte
	InflationAssignments []byte
	WitnessTxHash        pgtype.Text
}

type epochModel struct {
	NodeId          string
	ContractId      string
	No              int64
	ClosesTxHash    string
	ClosesTxIdx     int32
	EpochSealTxHash pgtype.Text
	EpochSealTxIdx  pgtype.Int4
	SealTxHash      pgtype.Text
	SealTxIdx       pgtype.Int4
	WitnessTxHash   string
}

type burnModel struct {
	NodeId          string
	EpochId         string
	ContractId      string
	No              int64
	ClosesTxHash    string
	ClosesTxIdx     int32
	DoesReplacement bool
	BurnedAmount    pgtype.Numeric
	ReplacedAmount  pgtype.Numeric
	SealTxHash      pgtype.Text
	SealTxIdx       pgtype.Int4
	WitnessTxHash   string
}

// outPointModel is the JSONB form of an absolute outpoint.
type outPointModel struct {
	TxHash string `json:"txHash"`
	TxIdx  uint32 `json:"txIdx"`
}

// inflationAssignmentModel is the JSONB form of one aggregated inflation
// assignment. Amount is kept as a decimal string since JSON numbers cannot
// carry the full uint64 range.
type inflationAssignmentModel struct {
	TxHash  string   `json:"txHash"`
	TxIdx   uint32   `json:"txIdx"`
	Amount  string   `json:"amount"`
	Indices []uint16 `json:"indices"`
}
