package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/store/memory"
)

type fakeUploader struct {
	url  string
	err  error
	body string
}

func (f *fakeUploader) UploadAvatar(_ context.Context, userID string, file io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(file)
	f.body = string(b)
	return f.url + "/" + userID, nil
}

func TestPublicProfile(t *testing.T) {
	users := memory.NewUsers()
	addUser(t, users, "u1", "real_user", models.RoleFreelancer)

	p := NewProfiles(users, nil, true)
	p.now = fixedClock(testNow)

	u, err := p.Public(context.Background(), " Real_User ")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	seeded, err := p.Public(context.Background(), "sarahchen")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Chen", seeded.Name)

	_, err = p.Public(context.Background(), "nobody_here")
	assert.True(t, IsKind(err, KindNotFound))

	_, err = p.Public(context.Background(), "  ")
	assert.True(t, IsKind(err, KindValidation))

	noSeed := NewProfiles(users, nil, false)
	_, err = noSeed.Public(context.Background(), "sarahchen")
	assert.True(t, IsKind(err, KindNotFound))
}

func TestUpdateProfile(t *testing.T) {
	users := memory.NewUsers()
	addUser(t, users, "u1", "real_user", models.RoleFreelancer)
	p := NewProfiles(users, nil, false)
	p.now = fixedClock(testNow)

	u, err := p.Update(context.Background(), "u1", models.ProfileUpdate{
		Name:        ptr("  New Name "),
		Skills:      []string{"Go", "", " Rust "},
		SocialLinks: &models.SocialLinks{GitHub: "https://github.com/x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", u.Name)
	assert.Equal(t, []string{"Go", "Rust"}, u.Skills)
	assert.Equal(t, "https://github.com/x", u.SocialLinks.GitHub)

	_, err = p.Update(context.Background(), "u1", models.ProfileUpdate{Name: ptr(" ")})
	assert.True(t, IsKind(err, KindValidation))

	_, err = p.Update(context.Background(), "u1", models.ProfileUpdate{Bio: ptr(strings.Repeat("b", 1001))})
	assert.True(t, IsKind(err, KindValidation))

	_, err = p.Update(context.Background(), "ghost", models.ProfileUpdate{})
	assert.True(t, IsKind(err, KindNotFound))
}

func TestUploadAvatar(t *testing.T) {
	users := memory.NewUsers()
	addUser(t, users, "u1", "real_user", models.RoleFreelancer)

	_, err := NewProfiles(users, nil, false).UploadAvatar(context.Background(), "u1", strings.NewReader("img"))
	assert.True(t, IsKind(err, KindUnavailable))

	up := &fakeUploader{url: "https://cdn.example.com"}
	p := NewProfiles(users, up, false)
	u, err := p.UploadAvatar(context.Background(), "u1", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/u1", u.AvatarURL)
	assert.Equal(t, "img", up.body)

	_, err = p.UploadAvatar(context.Background(), "ghost", strings.NewReader("img"))
	assert.True(t, IsKind(err, KindNotFound))

	p = NewProfiles(users, &fakeUploader{err: errors.New("boom")}, false)
	_, err = p.UploadAvatar(context.Background(), "u1", strings.NewReader("img"))
	require.Error(t, err)
	_, isUserErr := AsError(err)
	assert.False(t, isUserErr)
}
