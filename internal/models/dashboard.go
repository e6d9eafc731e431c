package models

// DashboardStats - сводка для главного экрана, считается сервером
type DashboardStats struct {
    TotalHours    float64 `json:"totalHours"`
    PendingLogs   int     `json:"pendingLogs"`
    ApprovedLogs  int     `json:"approvedLogs"`
    TotalEarnings float64 `json:"totalEarnings"`
}
