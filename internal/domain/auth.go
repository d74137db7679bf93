package domain

// LoginCredentials is the login form payload, forwarded to the backend with
// its Spanish field names.
type LoginCredentials struct {
	CorreoElectronico string `json:"correoElectronico"`
	Contrasena        string `json:"contrasena"`
}

// RegisterRequest is the registration payload. Rol defaults to Usuario when
// empty; the backend rejects anything outside its role set.
type RegisterRequest struct {
	Nombre            string `json:"nombre"`
	CorreoElectronico string `json:"correoElectronico"`
	Contrasena        string `json:"contrasena"`
	Rol               string `json:"rol"`
}

// LoginResult is what the backend returns on a successful login.
type LoginResult struct {
	Token   string   `json:"token"`
	Usuario *Usuario `json:"usuario"`
}
