package vault

type statusOutput struct {
	Body statusResponse
}

type statusResponse struct {
	IsEnabled bool `json:"is_enabled" doc:"Whether stored data is encrypted"`
	HasKey    bool `json:"has_key" doc:"Whether a key file exists"`
	Unlocked  bool `json:"unlocked" doc:"Whether the store is currently usable"`
}

type unlockInput struct {
	Body unlockRequest
}

type unlockRequest struct {
	Password string `json:"password" minLength:"1" doc:"Master password"`
}

type unlockOutput struct {
	Body unlockResponse
}

type unlockResponse struct {
	Success  bool `json:"success"`
	IsNewKey bool `json:"is_new_key" doc:"True when this unlock created the key"`
}

type lockOutput struct {
	Body statusMessage
}

type statusMessage struct {
	Status string `json:"status"`
}

type changePasswordInput struct {
	Body changePasswordRequest
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" minLength:"1" doc:"Current master password"`
	NewPassword string `json:"new_password" minLength:"1" doc:"New master password"`
}
