package dto

import "movierater/internal/detect"

// DetectRequest names a page to detect. When HTML is set the page is not
// fetched and URL only selects the site rules.
type DetectRequest struct {
	URL  string `json:"url" binding:"required"`
	HTML string `json:"html,omitempty"`
}

type BatchDetectRequest struct {
	URLs []string `json:"urls" binding:"required,min=1"`
}

type BatchDetectResponse struct {
	Results []detect.BatchResult `json:"results"`
}

// SnapshotRequest pushes a page snapshot for a tab.
type SnapshotRequest struct {
	URL  string `json:"url" binding:"required"`
	HTML string `json:"html"`
}

type SnapshotResponse struct {
	TabID string `json:"tabId"`
}
