package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-profile-service/internal/application"
	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
	"github.com/oksasatya/user-profile-service/internal/domain/entity"
	"github.com/oksasatya/user-profile-service/internal/interface/middleware"
	"github.com/oksasatya/user-profile-service/pkg/response"
	"github.com/oksasatya/user-profile-service/pkg/validation"
)

// MaxUploadBytes caps avatar and back pad uploads.
const MaxUploadBytes = 10 << 20

type ProfileHandler struct {
	Svc    *application.Service
	Logger logrus.FieldLogger
}

func NewProfileHandler(svc *application.Service, logger logrus.FieldLogger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type createAccountRequest struct {
	Username      string `json:"username" binding:"required,username"`
	Password      string `json:"password" binding:"required,password"`
	Email         string `json:"email" binding:"required,email,min=5"`
	FirstName     string `json:"firstName" binding:"required,personname"`
	LastName      string `json:"lastName" binding:"required,personname"`
	Gender        string `json:"gender" binding:"required,gender"`
	DateOfBirth   string `json:"dateOfBirth" binding:"required,isodate"`
	City          string `json:"city" binding:"omitempty,min=2"`
	Description   string `json:"description" binding:"required"`
	FirebaseToken string `json:"firebaseToken" binding:"omitempty,min=6"`
}

type updateProfileRequest struct {
	FirstName   *string `json:"firstName" binding:"omitempty,personname"`
	LastName    *string `json:"lastName" binding:"omitempty,personname"`
	Gender      *string `json:"gender" binding:"omitempty,gender"`
	DateOfBirth *string `json:"dateOfBirth" binding:"omitempty,isodate"`
	City        *string `json:"city" binding:"omitempty,min=2"`
	Description *string `json:"description" binding:"omitempty,min=1"`
}

type appendDeviceRequest struct {
	Token string `json:"token" binding:"required,min=6"`
}

func invalidPayload(err error) error {
	return apperr.Validation("invalid payload", validation.ToDetails(err))
}

func principal(c *gin.Context) (entity.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		_ = c.Error(apperr.Unauthorized("missing principal"))
	}
	return p, ok
}

func (h *ProfileHandler) CheckUsername(c *gin.Context) {
	ok, err := h.Svc.CheckUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"isAvailable": ok}, "username checked")
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(invalidPayload(err))
		return
	}
	dob, _ := time.Parse(time.DateOnly, req.DateOfBirth)

	res, err := h.Svc.CreateAccount(c.Request.Context(), application.CreateAccountInput{
		NewAccountInput: entity.NewAccountInput{
			Username:    req.Username,
			Password:    req.Password,
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Gender:      entity.Gender(req.Gender),
			DateOfBirth: dob,
			City:        req.City,
			Description: req.Description,
		},
		FirebaseToken: req.FirebaseToken,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusCreated, res, "created")
}

func (h *ProfileHandler) GetOwn(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	view, err := h.Svc.GetProfile(c.Request.Context(), p.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, view, "profile")
}

func (h *ProfileHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(invalidPayload(err))
		return
	}
	changes := entity.ProfileChanges{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Description: req.Description,
		City:        req.City,
	}
	if req.Gender != nil {
		g := entity.Gender(*req.Gender)
		changes.Gender = &g
	}
	if req.DateOfBirth != nil {
		dob, _ := time.Parse(time.DateOnly, *req.DateOfBirth)
		changes.DateOfBirth = &dob
	}

	if err := h.Svc.UpdateProfile(c.Request.Context(), p.ID, changes); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"status": "updated"}, "profile updated")
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteAccount(c.Request.Context(), p.ID); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"status": "deleted"}, "account deleted")
}

func (h *ProfileHandler) AddAvatar(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	data, err := readUpload(c, "avatar")
	if err != nil {
		_ = c.Error(err)
		return
	}
	link, err := h.Svc.AddAvatar(c.Request.Context(), p.ID, data)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"link": link}, "avatar added")
}

func (h *ProfileHandler) DeleteAvatar(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	avatarID, err := strconv.ParseInt(c.Param("avatarId"), 10, 64)
	if err != nil || avatarID <= 0 {
		_ = c.Error(apperr.Validation("invalid avatar id", map[string]string{"avatarId": "must be a positive integer"}))
		return
	}
	next, err := h.Svc.DeleteAvatar(c.Request.Context(), p.ID, avatarID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"newMediaUrl": next}, "avatar deleted")
}

func (h *ProfileHandler) ReplaceBackPad(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	data, err := readUpload(c, "back_pad")
	if err != nil {
		_ = c.Error(err)
		return
	}
	link, err := h.Svc.ReplaceBackPad(c.Request.Context(), p.ID, data)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"link": link}, "back pad replaced")
}

// Drop removes an unverified account on behalf of a peer service.
func (h *ProfileHandler) Drop(c *gin.Context) {
	if err := h.Svc.DropAccount(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"status": "dropped"}, "account dropped")
}

func (h *ProfileHandler) AppendDevice(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req appendDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(invalidPayload(err))
		return
	}
	h.Svc.AppendDevice(c.Request.Context(), p, req.Token)
	response.OK(c, http.StatusOK, gin.H{"status": "success"}, "device registered")
}

func readUpload(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, apperr.Validation("missing file", map[string]string{field: "is required"})
	}
	if fh.Size > MaxUploadBytes {
		return nil, apperr.Validation("file too large", map[string]string{field: "must be at most 10MB"})
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(io.LimitReader(f, MaxUploadBytes))
}
