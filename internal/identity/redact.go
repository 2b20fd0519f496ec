package identity

import "strings"

const visibleSuffix = 4

var (
	longMask  = strings.Repeat("*", 12)
	shortMask = strings.Repeat("*", visibleSuffix)
)

// MaskAccountNumber keeps the last four characters behind a fixed-width mask.
// The mask width does not depend on the input length.
func MaskAccountNumber(accountNumber string) string {
	runes := []rune(accountNumber)
	if len(runes) <= visibleSuffix {
		return shortMask
	}
	return longMask + string(runes[len(runes)-visibleSuffix:])
}

// Redact produces the view of id that is safe to return to its owner.
func Redact(id Identity) MaskedIdentity {
	return MaskedIdentity{
		ID:                  id.ID,
		MaskedAccountNumber: MaskAccountNumber(id.AccountNumber),
		IFSCCode:            id.IFSC,
		BankName:            id.BankName,
		Branch:              id.Branch,
		Address:             id.Address,
		City:                id.City,
		StateCode:           id.StateCode,
		RoutingNo:           id.RoutingNo,
		CreatedAt:           id.CreatedAt,
	}
}
