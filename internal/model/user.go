package model

// Roles known to the storefront. Authorization is enforced by the API;
// these only gate what the storefront offers.
const (
	RoleCustomer     = "CUSTOMER"
	RoleAdmin        = "ADMIN"
	RoleFraudAnalyst = "FRAUD_ANALYST"
)

// User is the identity resolved from a bearer token.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	UserType    string `json:"userType"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	RiskProfile string `json:"riskProfile,omitempty"`
	IsActive    bool   `json:"isActive"`
	IsVerified  bool   `json:"isVerified"`

	// Set on administration listings only.
	RegistrationDate  string  `json:"registrationDate,omitempty"`
	LastLogin         string  `json:"lastLogin,omitempty"`
	FraudCount        int     `json:"fraudCount,omitempty"`
	TotalTransactions int     `json:"totalTransactions,omitempty"`
	AverageAmount     float64 `json:"averageAmount,omitempty"`
}

// UserQuery pages and filters the user directory.
type UserQuery struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
	Search  string
}

// UserPage is one page of the user directory.
type UserPage struct {
	Users       []User `json:"users"`
	CurrentPage int    `json:"currentPage"`
	TotalItems  int64  `json:"totalItems"`
	TotalPages  int    `json:"totalPages"`
	Size        int    `json:"size"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	UserID   int64  `json:"userId"`
}
