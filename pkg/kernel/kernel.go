package kernel

// ============================================================================
// Identity Types
// ============================================================================

// UserID identifica a un usuario del sistema
type UserID string

// NewUserID crea un UserID a partir de su representación string
func NewUserID(value string) UserID {
	return UserID(value)
}

func (id UserID) String() string {
	return string(id)
}

// IsEmpty verifica si el ID está vacío
func (id UserID) IsEmpty() bool {
	return id == ""
}

// ============================================================================
// Auth Context
// ============================================================================

// AuthContext es el contexto de autenticación que viaja explícitamente a
// cada operación de los stores (nunca estado global)
type AuthContext struct {
	UserID *UserID `json:"user_id,omitempty"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
}

// DisplayName retorna el nombre visible del usuario (o su email como fallback)
func (a *AuthContext) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}
