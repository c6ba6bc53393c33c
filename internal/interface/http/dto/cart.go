package dto

// AddCartItemRequest HTTP加购请求
// 只传bookID:价格、书名等商品信息由服务端从书目读取,防止前端改价
type AddCartItemRequest struct {
	BookID uint `json:"book_id" binding:"required" example:"1"`
}

// UpdateCartItemRequest HTTP购物车数量调整请求
// quantity允许为0(等价于移除该行),所以不能用required(0会被判为缺失)
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=999" example:"2"`
}

// SetPanelRequest HTTP购物车面板开关请求
// open同样需要指针:false不能被required吞掉
type SetPanelRequest struct {
	Open *bool `json:"open" binding:"required" example:"true"`
}
