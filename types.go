package warden

import "context"

// SubjectAdmin is an exported constant or variable used by the identity engine.
//
// Every token the engine issues carries this subject; the appliance has
// exactly one administrative account.
const SubjectAdmin = "admin"

const (
	// FactorTOTP is an exported constant or variable used by the identity engine.
	FactorTOTP = "totp"
)

const (
	eventChangePassword    = "change-password"
	eventAppUpdate         = "app-update"
	eventProxyConfigUpdate = "caddy-config-update"
)

// AccountRecord defines a public type used by warden APIs.
//
// AccountRecord instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AccountRecord struct {
	Name          string       `json:"name"`
	Password      string       `json:"password,omitempty"`
	Seed          string       `json:"seed,omitempty"`
	InstalledApps []string     `json:"installedApps"`
	SecondFactors []string     `json:"secondFactors"`
	TOTPSecret    string       `json:"totpSecret,omitempty"`
	HTTPS         *HTTPSConfig `json:"https,omitempty"`
}

// Registered describes the registered operation and its observable behavior.
//
// Registered may return an error when input validation, dependency calls, or security checks fail.
// Registered does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r AccountRecord) Registered() bool {
	return r.Name != "" && r.Password != ""
}

func (r AccountRecord) hasFactor(factor string) bool {
	for _, f := range r.SecondFactors {
		if f == factor {
			return true
		}
	}
	return false
}

func defaultAccountRecord() AccountRecord {
	return AccountRecord{
		InstalledApps: []string{},
		SecondFactors: []string{},
	}
}

// HTTPSConfig defines a public type used by warden APIs.
//
// HTTPSConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HTTPSConfig struct {
	Email                string            `json:"email,omitempty"`
	AgreedLetsEncryptTOS bool              `json:"agreed_lets_encrypt_tos"`
	AppDomains           map[string]string `json:"app_domains,omitempty"`
}

// UserInfo defines a public type used by warden APIs.
//
// UserInfo instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserInfo struct {
	Name          string   `json:"name"`
	InstalledApps []string `json:"installedApps"`
}

// TOTPSetup defines a public type used by warden APIs.
//
// TOTPSetup instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TOTPSetup struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

// Trigger defines a public type used by warden APIs.
//
// Trigger instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Trigger interface {
	Notify(ctx context.Context, event string) error
}

// WalletInitializer defines a public type used by warden APIs.
//
// WalletInitializer instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type WalletInitializer interface {
	InitializeWallet(ctx context.Context, seed []string, token string) error
}
