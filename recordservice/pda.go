package recordservice

import (
	"github.com/gagliardetto/solana-go"
	"github.com/solrecord/record-service/program"
)

// PDA seed prefixes used by the on-chain program.
var (
	classSeed     = []byte("class")
	recordSeed    = []byte("record")
	authoritySeed = []byte("authority")
)

// ClassAddress derives the class PDA for an authority and class name.
func ClassAddress(authority solana.PublicKey, name string) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{classSeed, authority.Bytes(), []byte(name)},
		program.RecordService,
	)
}

// RecordAddress derives the record PDA within a class.
func RecordAddress(class solana.PublicKey, name string) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{recordSeed, class.Bytes(), []byte(name)},
		program.RecordService,
	)
}

// DelegateAddress derives the authority delegate PDA of a record.
func DelegateAddress(record solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{authoritySeed, record.Bytes()},
		program.RecordService,
	)
}
