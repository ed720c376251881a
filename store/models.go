package store

// ScreenState is the durable per-category record of the currently assigned
// video and display rotation. VideoRef is either empty (nothing assigned) or
// a locator resolvable by the media delivery layer.
type ScreenState struct {
	Category        string `json:"category" gorm:"primaryKey;column:category"`
	VideoRef        string `json:"video_ref" gorm:"column:video_ref;not null;default:''"`
	RotationDegrees int    `json:"rotation_degrees" gorm:"column:rotation_degrees;not null;default:0"`
}

func (ScreenState) TableName() string {
	return "screens"
}

type User struct {
	ID           int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
}

func (User) TableName() string {
	return "users"
}
