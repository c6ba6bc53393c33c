package dto

// ListBooksRequest HTTP书目列表请求
// validator tag说明:
// - omitempty: 字段可省略
// - oneof: 枚举校验,排序方式只接受这四种
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Category string `form:"category" binding:"omitempty,max=50" example:"Productividad"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"hábitos"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc rating_desc created_at_desc" example:"rating_desc"`
}

// BestsellersRequest HTTP畅销书请求
type BestsellersRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50" example:"10"`
}
