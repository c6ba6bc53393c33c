package dto

// CheckoutRequest HTTP结算请求
// 金额不在请求里:以服务端购物车为准
type CheckoutRequest struct {
	Email     string `json:"email" binding:"required,email,max=100" example:"lector@example.com"`
	FirstName string `json:"first_name" binding:"required,max=50" example:"Carlos"`
	LastName  string `json:"last_name" binding:"required,max=50" example:"Ruiz"`
	Country   string `json:"country" binding:"omitempty,max=50" example:"España"`
}

// ListOrdersRequest HTTP订单列表请求
type ListOrdersRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
