package models

import "time"

// Installation mirrors one GitHub App installation (one org/user granting access).
// Rows are never deleted; an uninstall only sets UninstalledAt.
type Installation struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	GithubInstallationID int64      `gorm:"not null;uniqueIndex" json:"github_installation_id"`
	GithubAccountLogin   string     `gorm:"type:varchar(255);not null" json:"github_account_login"`
	GithubAccountType    string     `gorm:"type:varchar(32);not null" json:"github_account_type"`
	InstalledAt          time.Time  `gorm:"not null;autoCreateTime" json:"installed_at"`
	UninstalledAt        *time.Time `json:"uninstalled_at"`
}

func (Installation) TableName() string { return "installations" }
