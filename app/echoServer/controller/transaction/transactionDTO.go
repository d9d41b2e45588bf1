package transaction

type IssueReq struct {
	BookID int64 `json:"bookId" validate:"required,gt=0"`
	Days   int   `json:"days" validate:"required,gt=0"`
}

type ReturnReq struct {
	TransactionID int64 `json:"transactionId" validate:"required,gt=0"`
}
