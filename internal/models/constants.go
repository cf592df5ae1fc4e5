package models

const (
	// SharerUserHeader — заголовок с идентификатором вызывающего пользователя.
	SharerUserHeader = "X-Sharer-User-Id"

	// WorkerQueueSize размер очереди воркера уведомлений
	WorkerQueueSize = 128

	// RateLimitRequests количество запросов в окне на пользователя
	RateLimitRequests = 30

	// RateLimitWindow окно ограничения частоты запросов в секундах
	RateLimitWindow = 60
)
