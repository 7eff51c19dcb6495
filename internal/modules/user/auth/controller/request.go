package controller

type SignUpRequest struct {
	AgencyName string `json:"agency_name" validate:"required,min=1,max=100"`
	FullName   string `json:"full_name" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type JoinRequest struct {
	Token    string `json:"token" validate:"required,uuid4"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type DeviceTokenRequest struct {
	DeviceToken string `json:"device_token" validate:"required,max=512"`
}
