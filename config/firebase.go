package config

// ServiceAccount holds the fields of a Google service account key used to sign URLs.
type ServiceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}
