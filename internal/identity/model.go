package identity

import (
	"time"

	"github.com/google/uuid"
)

// Identity represents a registered account holder.
type Identity struct {
	ID            uuid.UUID
	AccountNumber string
	IFSC          string
	BankName      string
	Branch        string
	Address       *string
	City          *string
	StateCode     *string
	RoutingNo     *string
	CreatedAt     time.Time
}

// Credentials is the {accountNumber, ifsc} pair used for registration and login.
type Credentials struct {
	AccountNumber string
	IFSC          string
}

// MaskedIdentity is the public view of an Identity.
type MaskedIdentity struct {
	ID                  uuid.UUID `json:"id"`
	MaskedAccountNumber string    `json:"maskedAccountNumber"`
	IFSCCode            string    `json:"ifscCode"`
	BankName            string    `json:"bankName"`
	Branch              string    `json:"branch"`
	Address             *string   `json:"address"`
	City                *string   `json:"city"`
	StateCode           *string   `json:"stateCode"`
	RoutingNo           *string   `json:"routingNo"`
	CreatedAt           time.Time `json:"createdAt"`
}
