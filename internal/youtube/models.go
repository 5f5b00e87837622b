// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package youtube

// Wire types for the subset of the YouTube Data API v3 used here.

type thumbnail struct {
	URL string `json:"url"`
}

type thumbnails struct {
	Default *thumbnail `json:"default,omitempty"`
	Medium  *thumbnail `json:"medium,omitempty"`
	High    *thumbnail `json:"high,omitempty"`
}

// best returns the high resolution URL, falling back to medium then default.
func (t thumbnails) best() string {
	for _, th := range []*thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}

type snippet struct {
	PublishedAt  string     `json:"publishedAt"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelTitle string     `json:"channelTitle"`
	Tags         []string   `json:"tags"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

// statistics values are decimal strings in the API.
type statistics struct {
	ViewCount    string `json:"viewCount"`
	LikeCount    string `json:"likeCount"`
	CommentCount string `json:"commentCount"`
}

type contentDetails struct {
	Duration string `json:"duration"`
}

type videoResource struct {
	ID             string         `json:"id"`
	Snippet        snippet        `json:"snippet"`
	Statistics     statistics     `json:"statistics"`
	ContentDetails contentDetails `json:"contentDetails"`
}

type videoListResponse struct {
	Items []videoResource `json:"items"`
}

type searchResult struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet snippet `json:"snippet"`
}

type searchListResponse struct {
	Items []searchResult `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
