package models

type CartItem struct {
	ID       int64    `json:"id"`
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

type Cart struct {
	ID        int64      `json:"id,omitempty"`
	CartItems []CartItem `json:"cartItems"`
}

type AddCartItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
