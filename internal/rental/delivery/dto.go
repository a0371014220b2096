package delivery

type RentalRequestDTO struct {
	CarID string `json:"carId" validate:"required,uuid"`
}
