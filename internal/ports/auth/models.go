package auth

// Role distingue adoptantes de staff (revisores de solicitudes).
type Role string

const (
	RoleAdopter Role = "adopter"
	RoleStaff   Role = "staff"
)

// Claims representa la identidad extraída del token.
// La autenticación real es un colaborador externo: acá solo viaja el resultado.
type Claims struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}
