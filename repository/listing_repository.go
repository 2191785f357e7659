package repository

import (
	"gorm.io/gorm"

	"rent-easy-server/models"
)

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) FindByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.Preload("Landowner").First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Save(listing *models.Listing) error {
	return r.db.Save(listing).Error
}
