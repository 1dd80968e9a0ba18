package auth

import (
	"github.com/ghuser/marketledger/services/market/domain/models"
)

// AdminSet is a static administrator capability check built from the
// configured admin account list.
type AdminSet struct {
	members map[models.Account]struct{}
}

// NewAdminSet builds an AdminSet from raw account names. Blank names are
// ignored.
func NewAdminSet(accounts []string) *AdminSet {
	members := make(map[models.Account]struct{}, len(accounts))
	for _, raw := range accounts {
		if account, ok := models.NewAccount(raw); ok {
			members[account] = struct{}{}
		}
	}
	return &AdminSet{members: members}
}

// IsAdministrator reports whether account holds the administrator capability.
func (s *AdminSet) IsAdministrator(account models.Account) bool {
	_, ok := s.members[account]
	return ok
}
