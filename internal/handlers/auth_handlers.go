package handlers

import (
	"net/http"
	"time"

	"tareasSync/internal/handlers/dto"
	"tareasSync/internal/logger"

	"go.uber.org/zap"
)

type AuthHandler struct {
	UserService UserService
}

func NewAuthHandler(userService UserService) AuthHandler {
	return AuthHandler{UserService: userService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.RegisterRequest
	if !readAuthRequest(w, r, &request) {
		return
	}

	u, token, err := h.UserService.Register(r.Context(), request.Email, request.Password)
	if err != nil {
		handleServiceError(w, r, err, "register")
		return
	}

	logger.Info("HTTP_OUT: Пользователь зарегистрирован",
		zap.Int64("user_id", u.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithValue(w, http.StatusCreated, dto.AuthResponse{
		Message: "Пользователь зарегистрирован",
		User:    dto.FromUser(u),
		Token:   token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.LoginRequest
	if !readAuthRequest(w, r, &request) {
		return
	}

	u, token, err := h.UserService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		handleServiceError(w, r, err, "login")
		return
	}

	logger.Info("HTTP_OUT: Вход выполнен",
		zap.Int64("user_id", u.ID),
		zap.Duration("ms", time.Since(start)))

	responseWithValue(w, http.StatusOK, dto.AuthResponse{
		Message: "Вход выполнен",
		User:    dto.FromUserShort(u),
		Token:   token,
	})
}

func readAuthRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !checkContentType(r, "application/json") {
		responseWithError(w, r, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return false
	}

	if err := decodeInto(r, dst); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, r, http.StatusBadRequest, "неверное тело запроса")
		return false
	}

	if err := validateRequest(dst); err != nil {
		if !handleBusinessError(w, r, err) {
			responseWithError(w, r, http.StatusBadRequest, "неверное тело запроса")
		}
		return false
	}
	return true
}
