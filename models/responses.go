package models

// TokenResponse is the payload returned by every authentication endpoint.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	Role        UserRole `json:"role"`
}

// EDSTokenResponse extends TokenResponse with a flag telling the client
// whether this was the first login for the certificate's IIN, in which case
// the registration profile still has to be completed.
type EDSTokenResponse struct {
	TokenResponse

	IsNewUser bool `json:"is_new_user"`
}

// RequestList is a paginated request listing. Total is the number of rows
// matching the filter before pagination was applied.
type RequestList struct {
	Total int64     `json:"total"`
	Items []Request `json:"items"`
}

// CommentList wraps the comments of a single request.
type CommentList struct {
	Items []Comment `json:"items"`
}

// AttachmentList wraps the attachment metadata of a single request.
type AttachmentList struct {
	Items []Attachment `json:"items"`
}
