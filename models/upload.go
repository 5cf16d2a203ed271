package models

import "time"

type UploadKind string

const (
	UploadProfilePicture  UploadKind = "profile"
	UploadPartnerDocument UploadKind = "document"
)

type UploadURLRequest struct {
	Kind        UploadKind `json:"kind" binding:"required"`
	FileName    string     `json:"fileName" binding:"required"`
	ContentType string     `json:"contentType" binding:"required"`
}

// UploadURL is a pre-signed PUT target. The client uploads with the given headers and
// then stores ObjectPath as an opaque reference.
type UploadURL struct {
	URL        string            `json:"url"`
	Method     string            `json:"method"`
	ObjectPath string            `json:"objectPath"`
	Headers    map[string]string `json:"headers"`
	ExpiresAt  time.Time         `json:"expiresAt"`
}
