package accounts

// ReserveRule is the minimum balance an account of a given size must keep to stay allocated.
type ReserveRule interface {
	MinimumBalance(space int) uint64
}

const (
	// AccountStorageOverhead is charged on top of every account's data.
	AccountStorageOverhead = 128

	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2
)

// RentRule charges for storage per byte-year, requiring ExemptionYears worth up front.
type RentRule struct {
	LamportsPerByteYear uint64
	ExemptionYears      uint64
}

func DefaultRentRule() RentRule {
	return RentRule{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionYears:      DefaultExemptionThreshold,
	}
}

func (r RentRule) MinimumBalance(space int) uint64 {
	return (AccountStorageOverhead + uint64(space)) * r.LamportsPerByteYear * r.ExemptionYears
}

// ZeroReserve keeps no reserve at all.
type ZeroReserve struct{}

func (ZeroReserve) MinimumBalance(int) uint64 {
	return 0
}
