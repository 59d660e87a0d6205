package idp

// TokenResponse is the provider's token endpoint response.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
	IDToken          string `json:"id_token,omitempty"`
	SessionState     string `json:"session_state,omitempty"`
	Scope            string `json:"scope,omitempty"`
}

// Introspection is the provider's token introspection response.
type Introspection struct {
	Active            bool   `json:"active"`
	Sub               string `json:"sub,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access,omitempty"`
}

// UserInfo is the provider's userinfo endpoint response.
type UserInfo struct {
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
}

// User is the provider's user representation.
type User struct {
	ID               string              `json:"id,omitempty"`
	Username         string              `json:"username"`
	Email            string              `json:"email,omitempty"`
	FirstName        string              `json:"firstName,omitempty"`
	LastName         string              `json:"lastName,omitempty"`
	Enabled          bool                `json:"enabled"`
	EmailVerified    bool                `json:"emailVerified,omitempty"`
	CreatedTimestamp int64               `json:"createdTimestamp,omitempty"`
	Attributes       map[string][]string `json:"attributes,omitempty"`
}

// Credential is a user credential representation, used for password resets.
type Credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// CreateUser is the payload for creating a user in the provider.
type CreateUser struct {
	Username    string              `json:"username"`
	Email       string              `json:"email,omitempty"`
	FirstName   string              `json:"firstName,omitempty"`
	Enabled     bool                `json:"enabled"`
	Attributes  map[string][]string `json:"attributes,omitempty"`
	Credentials []Credential        `json:"credentials,omitempty"`
}

// UserUpdate is the partial update payload pushed to the provider.
// Nil fields are omitted and keep their current value.
type UserUpdate struct {
	FirstName  *string             `json:"firstName,omitempty"`
	Email      *string             `json:"email,omitempty"`
	Enabled    *bool               `json:"enabled,omitempty"`
	Attributes map[string][]string `json:"attributes,omitempty"`
}

// Role is the provider's realm role representation.
type Role struct {
	ID          string              `json:"id,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Composite   bool                `json:"composite,omitempty"`
	ClientRole  bool                `json:"clientRole,omitempty"`
	ContainerID string              `json:"containerId,omitempty"`
	Attributes  map[string][]string `json:"attributes,omitempty"`
}

// ClientMapping is one client's role mapping entry inside RoleMappings.
type ClientMapping struct {
	ID       string `json:"id"`
	Client   string `json:"client,omitempty"`
	Mappings []Role `json:"mappings,omitempty"`
}

// RoleMappings is the provider's full role mapping representation for a user.
type RoleMappings struct {
	RealmMappings  []Role                   `json:"realmMappings,omitempty"`
	ClientMappings map[string]ClientMapping `json:"clientMappings,omitempty"`
}

// ClientSecret is the provider's client secret representation.
type ClientSecret struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// UserQuery narrows a ListUsers call.
type UserQuery struct {
	Search   string
	Username string
	Enabled  *bool
	First    int
	Max      int
	// Brief requests the provider's reduced representation, used for counting.
	Brief bool
}

// RoleQuery narrows a ListRoles call.
type RoleQuery struct {
	Search string
	First  int
	Max    int
	Brief  bool
}
