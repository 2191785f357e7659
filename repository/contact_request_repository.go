package repository

import (
	"time"

	"gorm.io/gorm"

	"rent-easy-server/models"
)

type contactRequestRepository struct {
	db *gorm.DB
}

func NewContactRequestRepository(db *gorm.DB) ContactRequestRepository {
	return &contactRequestRepository{db: db}
}

func (r *contactRequestRepository) Create(request *models.ContactRequest) error {
	return r.db.Create(request).Error
}

func (r *contactRequestRepository) FindByListingAndRequester(listingID, fromUserID uint) (*models.ContactRequest, error) {
	var request models.ContactRequest
	err := r.db.Where("listing_id = ? AND from_user_id = ?", listingID, fromUserID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *contactRequestRepository) FindPendingByListing(listingID uint) ([]models.ContactRequest, error) {
	var requests []models.ContactRequest
	err := r.db.Preload("FromUser").
		Where("listing_id = ? AND status = ?", listingID, models.ContactRequestPending).
		Find(&requests).Error
	return requests, err
}

// The status = 'pending' guard keeps terminal states terminal: updating
// an already-resolved request changes zero rows.
func (r *contactRequestRepository) MarkApproved(id uint, sharedAt time.Time) (int64, error) {
	result := r.db.Model(&models.ContactRequest{}).
		Where("id = ? AND status = ?", id, models.ContactRequestPending).
		Updates(map[string]interface{}{
			"status":            models.ContactRequestApproved,
			"contact_shared_at": sharedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *contactRequestRepository) MarkRejected(id uint) (int64, error) {
	result := r.db.Model(&models.ContactRequest{}).
		Where("id = ? AND status = ?", id, models.ContactRequestPending).
		Update("status", models.ContactRequestRejected)
	return result.RowsAffected, result.Error
}

func (r *contactRequestRepository) RejectPendingByListing(listingID uint) (int64, error) {
	result := r.db.Model(&models.ContactRequest{}).
		Where("listing_id = ? AND status = ?", listingID, models.ContactRequestPending).
		Update("status", models.ContactRequestRejected)
	return result.RowsAffected, result.Error
}
