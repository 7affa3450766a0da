package services

import "github.com/liuwei-h/personal-site/backend/internal/models"

// CanModify is the single authorization rule for destructive operations on
// user-owned rows: the owner or an admin.
func CanModify(actor models.Actor, ownerID uint) bool {
	return actor.IsAdmin || actor.ID == ownerID
}
