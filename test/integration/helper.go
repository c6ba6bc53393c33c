package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析、Cookie管理）封装成可复用的类型

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// BookItem 书目列表项
type BookItem struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Price         int64   `json:"price"`
	OriginalPrice int64   `json:"original_price"`
	Discount      int64   `json:"discount"`
	Rating        float64 `json:"rating"`
	Category      string  `json:"category"`
	Bestseller    bool    `json:"bestseller"`
}

// BookListData 书目列表响应数据
type BookListData struct {
	List       []BookItem `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// BookDetailData 图书详情响应数据
type BookDetailData struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// CartItemData 购物车明细
type CartItemData struct {
	BookID    uint  `json:"book_id"`
	Price     int64 `json:"price"`
	Quantity  int   `json:"quantity"`
	LineTotal int64 `json:"line_total"`
}

// CartData 购物车响应数据
type CartData struct {
	Items          []CartItemData `json:"items"`
	TotalItemCount int            `json:"total_item_count"`
	Subtotal       int64          `json:"subtotal"`
	Tax            int64          `json:"tax"`
	Total          int64          `json:"total"`
	TotalUSD       string         `json:"total_usd"`
	PanelOpen      bool           `json:"panel_open"`
}

// OrderItemData 订单明细
type OrderItemData struct {
	BookID      uint   `json:"book_id"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	DownloadURL string `json:"download_url"`
}

// OrderData 订单响应数据
type OrderData struct {
	OrderNo  string          `json:"order_no"`
	Status   string          `json:"status"`
	Subtotal int64           `json:"subtotal"`
	Tax      int64           `json:"tax"`
	Total    int64           `json:"total"`
	TotalUSD string          `json:"total_usd"`
	Items    []OrderItemData `json:"items"`
	PaidAt   string          `json:"paid_at"`
}

// OrderListData 订单列表响应数据
type OrderListData struct {
	List  []OrderData `json:"list"`
	Total int64       `json:"total"`
}

// Client 带Cookie的测试客户端
//
// 教学说明：
// 本项目的会话是游客会话：第一次请求时服务端通过Set-Cookie签发会话令牌，
// 之后同一个CookieJar的请求都属于同一个购物车。
// 每个Client就是一位独立的"访客"，新建两个Client即可验证会话隔离。
type Client struct {
	http *http.Client
}

// NewClient 创建一个新的访客客户端（独立会话）
func NewClient(t *testing.T) *Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err, "创建CookieJar失败")
	return &Client{
		http: &http.Client{
			Jar:     jar,
			Timeout: Timeout,
		},
	}
}

// do 发送请求并解析统一响应
func (c *Client) do(t *testing.T, method, url string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// GetJSON 发送GET请求并解析JSON响应
func (c *Client) GetJSON(t *testing.T, url string) *Response {
	return c.do(t, http.MethodGet, url, nil)
}

// PostJSON 发送POST请求并解析JSON响应
func (c *Client) PostJSON(t *testing.T, url string, data interface{}) *Response {
	return c.do(t, http.MethodPost, url, data)
}

// PutJSON 发送PUT请求并解析JSON响应
func (c *Client) PutJSON(t *testing.T, url string, data interface{}) *Response {
	return c.do(t, http.MethodPut, url, data)
}

// DeleteJSON 发送DELETE请求并解析JSON响应
func (c *Client) DeleteJSON(t *testing.T, url string) *Response {
	return c.do(t, http.MethodDelete, url, nil)
}

// AddToCart 加购一本书并返回最新购物车
//
// 教学说明：
// 这是一个"高阶"辅助函数，封装了加购+解析的流程，
// 让测试更关注业务逻辑而非基础设施
func (c *Client) AddToCart(t *testing.T, bookID uint) CartData {
	t.Helper()

	resp := c.PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
		"book_id": bookID,
	})
	require.Equal(t, 0, resp.Code, "加购失败: %s", resp.Message)

	var cart CartData
	err := json.Unmarshal(resp.Data, &cart)
	require.NoError(t, err, "解析购物车响应失败")
	return cart
}

// GetCart 查询当前购物车
func (c *Client) GetCart(t *testing.T) CartData {
	t.Helper()

	resp := c.GetJSON(t, BaseURL+"/cart")
	require.Equal(t, 0, resp.Code, "查询购物车失败: %s", resp.Message)

	var cart CartData
	err := json.Unmarshal(resp.Data, &cart)
	require.NoError(t, err, "解析购物车响应失败")
	return cart
}

// Checkout 提交结算并返回订单
func (c *Client) Checkout(t *testing.T, email string) (*Response, *OrderData) {
	t.Helper()

	resp := c.PostJSON(t, BaseURL+"/checkout", map[string]interface{}{
		"email":      email,
		"first_name": "Carlos",
		"last_name":  "Ruiz",
		"country":    "España",
	})
	if resp.Code != 0 {
		return resp, nil
	}

	var ord OrderData
	err := json.Unmarshal(resp.Data, &ord)
	require.NoError(t, err, "解析订单响应失败")
	return resp, &ord
}

// FirstSeededBookID 返回种子数据里的第一本书ID
//
// 教学说明：
// 服务启动时会自动写入种子书目，测试直接消费种子数据，
// 不需要（也没有接口）在测试里上架图书
func FirstSeededBookID(t *testing.T, c *Client) uint {
	t.Helper()

	resp := c.GetJSON(t, BaseURL+"/books")
	require.Equal(t, 0, resp.Code, "查询书目失败: %s", resp.Message)

	var data BookListData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析书目响应失败")
	require.NotEmpty(t, data.List, "种子书目不应为空")

	return data.List[0].ID
}
