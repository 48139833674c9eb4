package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-profile-service/internal/application"
	"github.com/oksasatya/user-profile-service/internal/application/mocks"
	"github.com/oksasatya/user-profile-service/internal/domain/apperr"
	"github.com/oksasatya/user-profile-service/internal/domain/entity"
	repomocks "github.com/oksasatya/user-profile-service/internal/domain/repository/mocks"
	"github.com/oksasatya/user-profile-service/internal/interface/middleware"
	"github.com/oksasatya/user-profile-service/pkg/helpers"
	"github.com/oksasatya/user-profile-service/pkg/validation"
)

const testID = "2b1f6f0e-1111-4c8a-9c1a-1d2e3f4a5b6c"

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type fixture struct {
	engine *gin.Engine
	repo   *repomocks.MockAccountRepository
	media  *mocks.MockMediaStore
	token  string
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:  repomocks.NewMockAccountRepository(ctrl),
		media: mocks.NewMockMediaStore(ctrl),
	}
	logger := helpers.NewNopLogger()
	d := application.NewDispatcher(nil, nil, nil, application.DispatcherConfig{Timeout: time.Second}, logger)
	reader := application.NewProfileReader(f.repo, nil, 0, logger)
	svc := application.NewService(f.repo, reader, f.media, d, nil, logger)

	jwt := helpers.NewJWTManager("secret", time.Hour)
	tok, _, err := jwt.GenerateAccessToken(entity.Principal{ID: testID, Username: "alice_01"})
	require.NoError(t, err)
	f.token = tok

	ph := NewProfileHandler(svc, logger)
	sh := NewServiceHandler(svc, logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.ErrorHandler(logger))
	users := r.Group("/v2/users")
	users.GET("/:username", ph.CheckUsername)
	users.POST("/", ph.Create)
	users.DELETE("/drop/:id", ph.Drop)
	own := users.Group("", middleware.BearerAuth(jwt))
	own.GET("/", ph.GetOwn)
	own.PATCH("/", ph.Update)
	own.DELETE("/", ph.Delete)
	own.POST("/avatar", ph.AddAvatar)
	own.DELETE("/avatar/:avatarId", ph.DeleteAvatar)
	own.POST("/back_pad", ph.ReplaceBackPad)
	own.POST("/append/device", ph.AppendDevice)
	svcGroup := r.Group("/v2/service")
	svcGroup.GET("/search", sh.Search)
	svcGroup.GET("/:id", sh.GetProfile)
	svcGroup.PATCH("/", sh.AdjustStatistic)
	f.engine = r

	t.Cleanup(func() { _ = d.Wait(t.Context()) })
	return f
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   map[string]any  `json:"error"`
}

func (f *fixture) do(t *testing.T, req *http.Request, auth bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if auth {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, path, field string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, "image.png")
		require.NoError(t, err)
		_, _ = fw.Write(data)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

const validCreateBody = `{
	"username": "alice_01",
	"password": "Secret1",
	"email": "alice@example.com",
	"firstName": "Алиса",
	"lastName": "Smith",
	"gender": "f",
	"dateOfBirth": "2000-05-01",
	"city": "Москва",
	"description": "hi"
}`

func TestCreate(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().CheckUsernameAvailable(gomock.Any(), "alice_01").Return(true, nil)
		f.repo.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in entity.NewAccountInput) (string, string, error) {
				assert.Equal(t, "Алиса", in.FirstName)
				assert.Equal(t, entity.GenderFemale, in.Gender)
				assert.Equal(t, time.Date(2000, time.May, 1, 0, 0, 0, 0, time.UTC), in.DateOfBirth)
				return testID, "https://cdn/avatars/default.png", nil
			})

		w, env := f.do(t, jsonRequest(http.MethodPost, "/v2/users/", validCreateBody), false)
		require.Equal(t, http.StatusCreated, w.Code)
		var res application.CreateAccountResult
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, testID, res.ID)
		assert.Equal(t, application.DropLinkPrefix+testID, res.DropLink)
		assert.GreaterOrEqual(t, res.ConfirmCode, 10000)
		assert.LessOrEqual(t, res.ConfirmCode, 99999)
	})

	t.Run("invalid payload lists fields", func(t *testing.T) {
		f := newFixture(t)
		body := strings.Replace(validCreateBody, `"gender": "f"`, `"gender": "x"`, 1)
		body = strings.Replace(body, `"username": "alice_01"`, `"username": "a b"`, 1)
		w, env := f.do(t, jsonRequest(http.MethodPost, "/v2/users/", body), false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error, "gender")
		assert.Contains(t, env.Error, "username")
	})

	t.Run("taken username", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().CheckUsernameAvailable(gomock.Any(), "alice_01").Return(false, nil)
		w, env := f.do(t, jsonRequest(http.MethodPost, "/v2/users/", validCreateBody), false)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "username already exists", env.Message)
	})
}

func TestCheckUsername(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().CheckUsernameAvailable(gomock.Any(), "bob_02").Return(true, nil)
	w, env := f.do(t, httptest.NewRequest(http.MethodGet, "/v2/users/bob_02", nil), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isAvailable":true}`, string(env.Data))
}

func TestGetOwn(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/v2/users/", nil), false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	f.repo.EXPECT().GetAccountByID(gomock.Any(), testID).Return(&entity.Account{
		ID:       testID,
		Username: "alice_01",
		Profile:  entity.Profile{FirstName: "Alice", Gender: entity.GenderFemale},
	}, nil)
	w, env := f.do(t, httptest.NewRequest(http.MethodGet, "/v2/users/", nil), true)
	require.Equal(t, http.StatusOK, w.Code)
	var view application.ProfileView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "alice_01", view.Username)
	assert.Equal(t, "Alice", view.Profile.FirstName)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().UpdateProfile(gomock.Any(), testID, gomock.Any()).
		DoAndReturn(func(_ any, _ string, ch entity.ProfileChanges) error {
			require.NotNil(t, ch.City)
			assert.Equal(t, "Казань", *ch.City)
			assert.Nil(t, ch.FirstName)
			require.NotNil(t, ch.Gender)
			assert.Equal(t, entity.GenderMale, *ch.Gender)
			return nil
		})
	w, env := f.do(t, jsonRequest(http.MethodPatch, "/v2/users/", `{"city":"Казань","gender":"m"}`), true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"updated"}`, string(env.Data))

	w, _ = f.do(t, jsonRequest(http.MethodPatch, "/v2/users/", `{"dateOfBirth":"01.05.2000"}`), true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAndDrop(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().DeleteAccount(gomock.Any(), testID).Return(nil).Times(2)

	w, env := f.do(t, httptest.NewRequest(http.MethodDelete, "/v2/users/", nil), true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"deleted"}`, string(env.Data))

	w, env = f.do(t, httptest.NewRequest(http.MethodDelete, "/v2/users/drop/"+testID, nil), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"dropped"}`, string(env.Data))

	w, _ = f.do(t, httptest.NewRequest(http.MethodDelete, "/v2/users/drop/not-a-uuid", nil), false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvatar(t *testing.T) {
	t.Run("upload", func(t *testing.T) {
		f := newFixture(t)
		f.media.EXPECT().Upload(gomock.Any(), []byte("png-bytes"), gomock.Any(), entity.MediaAvatar)
		f.media.EXPECT().MediaURL(gomock.Any(), entity.MediaAvatar).Return("https://cdn/avatars/x.png")
		f.repo.EXPECT().AddAvatar(gomock.Any(), testID, "https://cdn/avatars/x.png").Return("https://cdn/avatars/x.png", nil)

		w, env := f.do(t, multipartRequest(t, http.MethodPost, "/v2/users/avatar", "avatar", []byte("png-bytes")), true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"link":"https://cdn/avatars/x.png"}`, string(env.Data))
	})

	t.Run("missing file", func(t *testing.T) {
		f := newFixture(t)
		w, env := f.do(t, multipartRequest(t, http.MethodPost, "/v2/users/avatar", "", nil), true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error, "avatar")
	})

	t.Run("delete", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().DeleteAvatar(gomock.Any(), int64(7), testID).Return("https://cdn/avatars/default.png", nil)
		w, env := f.do(t, httptest.NewRequest(http.MethodDelete, "/v2/users/avatar/7", nil), true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"newMediaUrl":"https://cdn/avatars/default.png"}`, string(env.Data))
	})

	t.Run("delete not owned", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().DeleteAvatar(gomock.Any(), int64(8), testID).Return("", apperr.NotFound("avatar not found"))
		w, _ := f.do(t, httptest.NewRequest(http.MethodDelete, "/v2/users/avatar/8", nil), true)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad avatar id", func(t *testing.T) {
		f := newFixture(t)
		w, _ := f.do(t, httptest.NewRequest(http.MethodDelete, "/v2/users/avatar/abc", nil), true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReplaceBackPad(t *testing.T) {
	f := newFixture(t)
	f.media.EXPECT().Upload(gomock.Any(), []byte("img"), gomock.Any(), entity.MediaBackPad)
	f.media.EXPECT().MediaURL(gomock.Any(), entity.MediaBackPad).Return("https://cdn/back-pads/y.png")
	f.repo.EXPECT().ReplaceBackPad(gomock.Any(), testID, "https://cdn/back-pads/y.png").Return("https://cdn/back-pads/y.png", nil)

	w, env := f.do(t, multipartRequest(t, http.MethodPost, "/v2/users/back_pad", "back_pad", []byte("img")), true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"link":"https://cdn/back-pads/y.png"}`, string(env.Data))
}

func TestAppendDevice(t *testing.T) {
	f := newFixture(t)
	w, _ := f.do(t, jsonRequest(http.MethodPost, "/v2/users/append/device", `{"token":"abc"}`), true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := f.do(t, jsonRequest(http.MethodPost, "/v2/users/append/device", `{"token":"firebase-token"}`), true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success"}`, string(env.Data))
}

func TestServiceEndpoints(t *testing.T) {
	t.Run("adjust defaults to increase", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().AdjustStatistic(gomock.Any(), testID, entity.StatisticEvents, true).Return(nil)
		w, _ := f.do(t, httptest.NewRequest(http.MethodPatch, "/v2/service/?user_id="+testID+"&field=EVENTS", nil), false)
		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("adjust decrease", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().AdjustStatistic(gomock.Any(), testID, entity.StatisticFriends, false).Return(nil)
		w, _ := f.do(t, httptest.NewRequest(http.MethodPatch, "/v2/service/?user_id="+testID+"&field=friends&increase=false", nil), false)
		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("adjust unknown field", func(t *testing.T) {
		f := newFixture(t)
		w, env := f.do(t, httptest.NewRequest(http.MethodPatch, "/v2/service/?user_id="+testID+"&field=likes", nil), false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error, "field")
	})

	t.Run("get by id", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetAccountByID(gomock.Any(), testID).Return(nil, apperr.NotFound("user not found"))
		w, env := f.do(t, httptest.NewRequest(http.MethodGet, "/v2/service/"+testID, nil), false)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "user not found", env.Message)
	})

	t.Run("search without index", func(t *testing.T) {
		f := newFixture(t)
		w, env := f.do(t, httptest.NewRequest(http.MethodGet, "/v2/service/search?q=alice", nil), false)
		assert.Equal(t, http.StatusOK, w.Code)
		var docs []map[string]any
		if len(env.Data) > 0 {
			require.NoError(t, json.Unmarshal(env.Data, &docs))
		}
		assert.Empty(t, docs)

		w, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/v2/service/search", nil), false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
