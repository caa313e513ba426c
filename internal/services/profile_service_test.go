package services

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fitness-portal/internal/dto"
	"fitness-portal/internal/repositories"
	apperrors "fitness-portal/pkg/errors"
	"fitness-portal/pkg/filestorage"
)

type profileFixture struct {
	up       *upstream
	profile  *ProfileService
	sessions *SessionService
	storage  *filestorage.LocalFileStorage
	bus      *recordingBus
	sid      string
}

func newProfileFixture(t *testing.T, session dto.SessionDTO) *profileFixture {
	t.Helper()
	up, client := newUpstream(t)
	bus := &recordingBus{}
	sessions := NewSessionService(repositories.NewMemoryCacheRepository(), bus, time.Hour, zap.NewNop())
	storage, err := filestorage.NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	created, err := sessions.Create(context.Background(), session)
	require.NoError(t, err)

	return &profileFixture{
		up:       up,
		profile:  NewProfileService(client, sessions, storage, newTestValidator(t), "http://portal.test/", bus, zap.NewNop()),
		sessions: sessions,
		storage:  storage,
		bus:      bus,
		sid:      created.ID,
	}
}

func (f *profileFixture) exists(t *testing.T, publicURL string) bool {
	t.Helper()
	rel := strings.TrimPrefix(strings.TrimPrefix(publicURL, "http://portal.test"), filestorage.PublicPrefix)
	_, err := os.Stat(filepath.Join(f.storage.BasePath(), filepath.FromSlash(rel)))
	return err == nil
}

func TestProfileService_UpdateProfile(t *testing.T) {
	f := newProfileFixture(t, dto.SessionDTO{UserID: "15", FullName: "A", RoleName: dto.RoleMember, Token: "tok"})
	f.up.on(http.MethodPut, "/UserAccount/15", http.StatusNoContent, "")

	updated, err := f.profile.UpdateProfile(context.Background(), f.sid, dto.UpdateProfileDTO{
		FullName: " Nguyễn Văn A ", Email: "A@Gym.VN", PhoneNumber: "090 123 4567",
	})

	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn A", updated.FullName)
	assert.Equal(t, "a@gym.vn", updated.Email)
	assert.Equal(t, "0901234567", updated.PhoneNumber)

	puts := f.up.callsTo(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "0901234567", jsonBody(t, puts[0].Body)["phoneNumber"])
	assert.Len(t, f.bus.named("session.updated"), 1)
}

func TestProfileService_UpdateProfileInvalid(t *testing.T) {
	f := newProfileFixture(t, dto.SessionDTO{UserID: "15"})

	_, err := f.profile.UpdateProfile(context.Background(), f.sid, dto.UpdateProfileDTO{FullName: "A", Email: "a@gym.vn", PhoneNumber: "123"})

	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "phoneNumber")
	assert.Zero(t, f.up.count())
}

func TestProfileService_UpdateProfileServerRejects(t *testing.T) {
	f := newProfileFixture(t, dto.SessionDTO{UserID: "15", FullName: "A"})
	f.up.on(http.MethodPut, "/UserAccount/15", http.StatusBadRequest, `{"message":"Email đã được sử dụng"}`)

	_, err := f.profile.UpdateProfile(context.Background(), f.sid, dto.UpdateProfileDTO{FullName: "B", Email: "b@gym.vn"})

	require.Error(t, err)
	got, _ := f.sessions.Get(context.Background(), f.sid)
	assert.Equal(t, "A", got.FullName)
	assert.Empty(t, f.bus.named("session.updated"))
}

func TestProfileService_OperatorSkipsUpstream(t *testing.T) {
	f := newProfileFixture(t, dto.SessionDTO{UserID: "operator:desk", Username: "desk"})

	updated, err := f.profile.UpdateProfile(context.Background(), f.sid, dto.UpdateProfileDTO{FullName: "Lễ tân", Email: "desk@gym.vn"})

	require.NoError(t, err)
	assert.Equal(t, "Lễ tân", updated.FullName)
	assert.Zero(t, f.up.count())
}

func TestProfileService_UploadAvatarReplacesOld(t *testing.T) {
	f := newProfileFixture(t, dto.SessionDTO{UserID: "15"})
	f.up.on(http.MethodPut, "/UserAccount/15/avatar", http.StatusNoContent, "")
	ctx := context.Background()

	first, err := f.profile.UploadAvatar(ctx, f.sid, strings.NewReader("png-1"), "me.PNG", 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.AvatarURL, "http://portal.test/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(first.AvatarURL, ".png"))
	require.True(t, f.exists(t, first.AvatarURL))

	second, err := f.profile.UploadAvatar(ctx, f.sid, strings.NewReader("png-2"), "me.png", 5)
	require.NoError(t, err)
	assert.NotEqual(t, first.AvatarURL, second.AvatarURL)
	assert.True(t, f.exists(t, second.AvatarURL))
	assert.False(t, f.exists(t, first.AvatarURL))

	puts := f.up.callsTo(http.MethodPut)
	require.Len(t, puts, 2)
	assert.Equal(t, second.AvatarURL, jsonBody(t, puts[1].Body)["avatarUrl"])
}

func TestProfileService_UploadAvatarRejected(t *testing.T) {
	f := newProfileFixture(t, dto.SessionDTO{UserID: "15", AvatarURL: "https://cdn.example.com/a.png"})
	f.up.on(http.MethodPut, "/UserAccount/15/avatar", http.StatusInternalServerError, "")
	ctx := context.Background()

	_, err := f.profile.UploadAvatar(ctx, f.sid, strings.NewReader("x"), "a.exe", 1)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	_, err = f.profile.UploadAvatar(ctx, f.sid, strings.NewReader("x"), "a.png", MaxAvatarSize+1)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))

	_, err = f.profile.UploadAvatar(ctx, f.sid, strings.NewReader("x"), "a.png", 1)
	require.Error(t, err)

	got, _ := f.sessions.Get(ctx, f.sid)
	assert.Equal(t, "https://cdn.example.com/a.png", got.AvatarURL)
	files := 0
	_ = filepath.WalkDir(f.storage.BasePath(), func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files++
		}
		return nil
	})
	assert.Zero(t, files, "файл аватара должен быть удален")
}
