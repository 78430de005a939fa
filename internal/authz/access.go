package authz

import "elfportal/internal/models"

// CanReadChannel: a project channel is open to anyone with portal access;
// direct and group channels only to their registered members.
func CanReadChannel(ch *models.Channel, userID int64) bool {
	if ch.Type == models.ChannelProject {
		return true
	}
	for _, member := range ch.Members {
		if member == userID {
			return true
		}
	}
	return false
}

// CanPostChannel matches the read rule; there is no read-only channel kind.
func CanPostChannel(ch *models.Channel, userID int64) bool {
	return CanReadChannel(ch, userID)
}
