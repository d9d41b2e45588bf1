package book

type CreateBookReq struct {
	BookName        string   `json:"bookName" validate:"required"`
	Author          string   `json:"author"`
	Description     string   `json:"description"`
	Category        string   `json:"category" validate:"required"`
	RentPerDay      float64  `json:"rentPerDay" validate:"required,gt=0"`
	OneTimePrice    *float64 `json:"oneTimePrice" validate:"omitempty,gt=0"`
	PublicationYear int      `json:"publicationYear"`
	Cover           *string  `json:"cover"`
}

type UpdateBookReq struct {
	BookName        string   `json:"bookName"`
	Author          string   `json:"author"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	RentPerDay      float64  `json:"rentPerDay" validate:"omitempty,gt=0"`
	OneTimePrice    *float64 `json:"oneTimePrice" validate:"omitempty,gt=0"`
	PublicationYear int      `json:"publicationYear"`
	Cover           *string  `json:"cover"`
}
