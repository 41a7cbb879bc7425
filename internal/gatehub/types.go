// File: internal/gatehub/types.go
package gatehub

import "encoding/json"

// Webhook event types issued by GateHub. Only the accepted identity-verification
// event mutates local state; everything else is ignored so that new provider
// event types never break the handler.
const (
	EventIDVerificationAccepted = "id.verification.accepted"
	EventIDVerificationError    = "id.verification.error"
)

// Iframe types accepted by the hosted onboarding/ramp pages.
const (
	IframeTypeOnboarding = "onboarding"
	IframeTypeRamp       = "ramp"
	IframeTypeWithdrawal = "withdrawal"
	IframeTypeDeposit    = "deposit"
)

// WebhookData is the inbound notification payload posted by GateHub. It is a
// transient input, fully consumed within one handling pass and never persisted.
type WebhookData struct {
	UUID        string          `json:"uuid" binding:"required"`
	Timestamp   string          `json:"timestamp"`
	EventType   string          `json:"event_type" binding:"required"`
	UserUUID    string          `json:"user_uuid" binding:"required"`
	Environment string          `json:"environment"`
	Data        json.RawMessage `json:"data"`
}

// ManagedUser is GateHub's representation of a provider-managed user.
type ManagedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile is the KYC profile snapshot attached to a user state.
type Profile struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	AddressCountryCode string `json:"address_country_code,omitempty"`
	AddressStreet1     string `json:"address_street1,omitempty"`
	AddressStreet2     string `json:"address_street2,omitempty"`
	AddressCity        string `json:"address_city,omitempty"`
}

// UserState is the on-demand verification state snapshot fetched from GateHub.
type UserState struct {
	ID      string  `json:"id"`
	Profile Profile `json:"profile"`
}

// Wallet is a GateHub managed wallet.
type Wallet struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Balance is a single-asset balance of a managed wallet.
type Balance struct {
	Available string `json:"available"`
	Pending   string `json:"pending"`
	Total     string `json:"total"`
	Vault     Vault  `json:"vault"`
}

// Vault describes the asset a balance is denominated in.
type Vault struct {
	UUID          string `json:"uuid"`
	AssetCode     string `json:"asset_code"`
	DecimalPlaces int    `json:"decimal_places"`
}

// connectGatewayRequest is the payload for connecting a managed user to the gateway.
type connectGatewayRequest struct {
	UserUUID string   `json:"user_uuid"`
	Profile  *Profile `json:"profile,omitempty"`
}

// connectGatewayResponse reports whether the gateway accepted the user.
type connectGatewayResponse struct {
	Connected bool `json:"connected"`
}

type createManagedUserRequest struct {
	Email string `json:"email"`
}

type createWalletRequest struct {
	Name      string `json:"name"`
	Type      int    `json:"type"`
	VaultUUID string `json:"vault_uuid,omitempty"`
}

type iframeURLResponse struct {
	URL string `json:"url"`
}

type addUserToGatewayRequest struct {
	UserUUID      string `json:"user_uuid"`
	WalletAddress string `json:"wallet_address"`
}
