// Package utils holds small helpers shared by the model providers and the
// service layer: [DoPostSync] for JSON round-trips to provider APIs, string
// truncation for logs and a wall-clock [Timer].
package utils
