package accountqueue

// VerifyLinkJob asks a worker to confirm that a freshly linked username
// exists on its server.
type VerifyLinkJob struct {
	DiscordID string `json:"discord_id"`
	ChannelID string `json:"channel_id"`
}

// Kind returns the job type identifier for River
func (VerifyLinkJob) Kind() string { return "verify_link" }
