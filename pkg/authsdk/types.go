package authsdk

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username  string `json:"username" example:"alice"`
	Password  string `json:"password" example:"pw123!"`
	Email     string `json:"email" example:"alice@example.com"`
	FirstName string `json:"first_name,omitempty" example:"Alice"`
	LastName  string `json:"last_name,omitempty" example:"Liddell"`
}

// LoginRequest is the body of POST /api/auth/login. Username may also be
// the account email.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"pw123!"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	IsStaff bool   `json:"is_staff"`
}

// IdentityResponse is returned by GET /api/auth/me.
type IdentityResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by /healthz and /readyz on every service.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}
