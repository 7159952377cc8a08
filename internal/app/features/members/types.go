package members

type tenantInput struct {
	TenantID string `json:"tenantId" validate:"required,uuid" label:"Tenant ID"`
}

type addInput struct {
	TenantID string `json:"tenantId" validate:"required,uuid" label:"Tenant ID"`
	UserID   string `json:"userId" validate:"required,uuid" label:"User ID"`
	Role     string `json:"role" validate:"omitempty,memberrole" label:"Role"`
}

type updateInput struct {
	ID   string `json:"id" validate:"required,uuid" label:"Membership ID"`
	Role string `json:"role" validate:"required,memberrole" label:"Role"`
}

type removeInput struct {
	ID string `json:"id" validate:"required,uuid" label:"Membership ID"`
}

type createUserInput struct {
	TenantID string `json:"tenantId" validate:"required,uuid" label:"Tenant ID"`
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,min=6,max=200" label:"Password"`
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Role     string `json:"role" validate:"omitempty,memberrole" label:"Role"`
}
