package dto

import "time"

// HistoryUpdateRequest 记录观看请求
type HistoryUpdateRequest struct {
	VideoID int64 `json:"video_id" binding:"required"`
}

// HistoryEntry 观看记录
type HistoryEntry struct {
	ID        int64     `json:"id"`
	VideoID   int64     `json:"video_id"`
	WatchedAt time.Time `json:"watched_at"`
	Video     VideoInfo `json:"video"`
}

// HistoryListData 观看记录列表
type HistoryListData struct {
	Entries []HistoryEntry `json:"entries"`
}

// HistoryClearData 清空结果
type HistoryClearData struct {
	Deleted int64 `json:"deleted"`
}
