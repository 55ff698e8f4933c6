package models

type ReportReason string

const (
	ReasonHarassment    ReportReason = "Harassment"
	ReasonSelfInjury    ReportReason = "Suicide or self-injury"
	ReasonViolence      ReportReason = "Violence or dangerous organizations"
	ReasonNudity        ReportReason = "Nudity or sexual activity"
	ReasonSelling       ReportReason = "Selling or promoting restricted items"
	ReasonScamOrFraud   ReportReason = "Scam or fraud"
	ReasonBlackmail     ReportReason = "Blackmail"
	ReasonIdentityTheft ReportReason = "Identity Theft"
	ReasonOther         ReportReason = "Other"
)

// ReportReasons lists every reason the backend accepts, in menu order.
var ReportReasons = []ReportReason{
	ReasonHarassment,
	ReasonSelfInjury,
	ReasonViolence,
	ReasonNudity,
	ReasonSelling,
	ReasonScamOrFraud,
	ReasonBlackmail,
	ReasonIdentityTheft,
	ReasonOther,
}

// CreateReportDTO is the POST /reports payload.
type CreateReportDTO struct {
	User         string       `json:"user"`
	ReportedUser string       `json:"reportedUser"`
	Reason       ReportReason `json:"reason"`
	Description  string       `json:"description,omitempty"`
}

// CreateBlockDTO is the POST /blocks payload.
type CreateBlockDTO struct {
	User        string `json:"user"`
	BlockedUser string `json:"blockedUser"`
}

// CreateLikeDTO is the POST /likes payload.
type CreateLikeDTO struct {
	User      string `json:"user"`
	LikedUser string `json:"likedUser"`
}

// CreateDislikeDTO is the POST /dislikes payload.
type CreateDislikeDTO struct {
	User         string `json:"user"`
	DislikedUser string `json:"dislikedUser"`
}
