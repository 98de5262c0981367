package model

// OwnerKind distinguishes user-created content from platform-provided content.
type OwnerKind string

const (
	OwnerKindUser   OwnerKind = "user"
	OwnerKindSystem OwnerKind = "system"
)

// Owner identifies who created a content unit. Embedded in decks, resources
// and courses so ownership checks never depend on a sentinel user ID.
type Owner struct {
	OwnerKind   OwnerKind `gorm:"type:varchar(10);not null;default:'system'" json:"owner_kind"`
	OwnerUserID uint      `gorm:"index" json:"owner_user_id,omitempty"`
}

// UserOwner builds an Owner for content created by a student.
func UserOwner(userID uint) Owner {
	return Owner{OwnerKind: OwnerKindUser, OwnerUserID: userID}
}

// SystemOwner builds an Owner for platform content published by the admin team.
func SystemOwner() Owner {
	return Owner{OwnerKind: OwnerKindSystem}
}

// IsOwnedBy reports whether the given user created this content.
// System-owned content is owned by no individual user.
func (o Owner) IsOwnedBy(userID uint) bool {
	return o.OwnerKind == OwnerKindUser && o.OwnerUserID == userID
}
