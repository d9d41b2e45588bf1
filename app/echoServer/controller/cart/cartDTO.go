package cart

type AddItemReq struct {
	BookID int64   `json:"bookId" validate:"required,gt=0"`
	Price  float64 `json:"price" validate:"required,gt=0"`
}

type UpdateItemReq struct {
	PurchaseType string `json:"purchaseType" validate:"required,oneof=rent buy"`
	RentDays     int    `json:"rentDays" validate:"omitempty,gt=0"`
}

type RemoveItemReq struct {
	CartItemID int64 `json:"cartItemId" validate:"required,gt=0"`
}

type MergeReq struct {
	BookIDs []int64 `json:"bookIds" validate:"required"`
}
