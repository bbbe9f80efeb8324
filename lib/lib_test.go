package lib

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"storefront_server/structs"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastArgon = &structs.ArgonParams{Memory: 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", fastArgon)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := VerifyPassword("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("x", "$bcrypt$nope")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = VerifyPassword("x", "$argon2id$v=1$m=1,t=1,p=1$AAAA$AAAA")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestEncryptDecrypt(t *testing.T) {
	key := strings.Repeat("k", 32)

	enc, err := Encrypt("+201234567890", key)
	require.NoError(t, err)
	assert.NotContains(t, enc, "201234567890")

	dec, err := Decrypt(enc, key)
	require.NoError(t, err)
	assert.Equal(t, "+201234567890", dec)

	empty, err := Encrypt("", key)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = Encrypt("secret", "short")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = Decrypt(enc, strings.Repeat("x", 32))
	assert.Error(t, err)
}

func TestEncryptAllDecryptAll(t *testing.T) {
	key := strings.Repeat("k", 32)
	name, contact := "Sara", "@sara"
	require.NoError(t, EncryptAll(key, &name, &contact))
	assert.NotEqual(t, "Sara", name)

	require.NoError(t, DecryptAll(key, &name, &contact))
	assert.Equal(t, "Sara", name)
	assert.Equal(t, "@sara", contact)
}

func TestSignAndParseToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	claims := &structs.AuthClaims{
		Sub:   uuid.New(),
		Email: "a@example.com",
		Role:  structs.RoleAdmin,
		Iat:   now,
		Exp:   now.Add(time.Hour),
		Jti:   uuid.New(),
	}

	token, err := SignToken(claims, "secret")
	require.NoError(t, err)

	parsed, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, claims.Sub, parsed.Sub)
	assert.Equal(t, claims.Jti, parsed.Jti)
	assert.Equal(t, claims.Role, parsed.Role)
	assert.True(t, claims.Exp.Equal(parsed.Exp))

	_, err = ParseToken(token, "other")
	assert.Error(t, err)

	claims.Exp = now.Add(-time.Minute)
	expired, err := SignToken(claims, "secret")
	require.NoError(t, err)
	_, err = ParseToken(expired, "secret")
	assert.Error(t, err)
}

func TestExtractClaimsReadsCookie(t *testing.T) {
	claims := &structs.AuthClaims{Sub: uuid.New(), Role: structs.RoleUser, Iat: time.Now(), Exp: time.Now().Add(time.Hour), Jti: uuid.New()}
	token, err := SignToken(claims, "secret")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = ExtractClaims(r, "secret")
	assert.Error(t, err)

	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: token})
	got, err := ExtractClaims(r, "secret")
	require.NoError(t, err)
	assert.Equal(t, claims.Sub, got.Sub)
}

func TestValidCSRF(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.False(t, ValidCSRF(r))

	token, err := GenerateCSRFToken()
	require.NoError(t, err)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})
	assert.False(t, ValidCSRF(r))

	r.Header.Set(CSRFHeaderName, token)
	assert.True(t, ValidCSRF(r))

	r.Header.Set(CSRFHeaderName, token+"x")
	assert.False(t, ValidCSRF(r))
}

func TestBuildMessagingLink(t *testing.T) {
	link, err := BuildMessagingLink(ProviderWhatsApp, "+20 123-456-7890", "Hi there & more")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/201234567890?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Hi there & more", u.Query().Get("text"))

	link, err = BuildMessagingLink(ProviderTelegram, "@store_bot", "")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/store_bot", link)

	_, err = BuildMessagingLink(ProviderWhatsApp, "", "hi")
	assert.ErrorIs(t, err, ErrMessagingNotSetUp)

	_, err = BuildMessagingLink("signal", "123", "hi")
	assert.Error(t, err)
}

func TestBuildMessagingLinkTelegramPhone(t *testing.T) {
	cases := []struct {
		recipient string
		want      string
	}{
		{"+31 6 9999 8888", "https://t.me/+31699998888?text=hi"},
		{"+20 (123) 456-7890", "https://t.me/+201234567890?text=hi"},
		{"0031699998888", "https://t.me/+31699998888?text=hi"},
		{"@store_bot", "https://t.me/store_bot?text=hi"},
		{"store_bot", "https://t.me/store_bot?text=hi"},
	}

	for _, tc := range cases {
		link, err := BuildMessagingLink(ProviderTelegram, tc.recipient, "hi")
		require.NoError(t, err, tc.recipient)
		assert.Equal(t, tc.want, link, tc.recipient)
	}

	_, err := BuildMessagingLink(ProviderTelegram, "+", "hi")
	assert.ErrorIs(t, err, ErrMessagingNotSetUp)
}

func TestBuildMessagingLinkTruncatesText(t *testing.T) {
	long := strings.Repeat("ب", MaxMessageRunes+50)
	link, err := BuildMessagingLink(ProviderWhatsApp, "123", long)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, MaxMessageRunes, utf8.RuneCountInString(u.Query().Get("text")))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "201234567890", NormalizePhone("+20 (123) 456-7890"))
	assert.Equal(t, "201234567890", NormalizePhone("00201234567890"))
	assert.Equal(t, "", NormalizePhone("n/a"))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "abc…", TruncateText("abcdefgh", 4))
	assert.Equal(t, "abcdefgh", TruncateText("abcdefgh", 0))
}

func TestGenerateOrderNumber(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		n := GenerateOrderNumber()
		require.Len(t, n, 9)
		assert.True(t, strings.HasPrefix(n, "DG-"))
		for _, c := range n[3:] {
			assert.Contains(t, orderNumberChars, string(c))
		}
		seen[n] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestGenerateSKU(t *testing.T) {
	sku, err := GenerateSKU("games", "Steam Card", 4)
	require.NoError(t, err)
	assert.Regexp(t, `^GAM-STE-[A-Z0-9]{4}$`, sku)

	sku, err = GenerateSKU("misc", "بطاقة", 4)
	require.NoError(t, err)
	assert.Regexp(t, `^MIS-PRD-[A-Z0-9]{4}$`, sku)
}

func TestSanitizeAndEscape(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeString("  Hello\x00 World ", true, true))
	assert.Equal(t, "line\nnext", SanitizeString("line\nnext", false, false))
	assert.Equal(t, `50\% off\_now`, EscapeLike("50% off_now"))
}

func TestMapPgError(t *testing.T) {
	assert.Nil(t, MapPgError(nil))
	assert.ErrorIs(t, MapPgError(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, MapPgError(&pgconn.PgError{Code: "23505"}), ErrConflict)

	other := errors.New("boom")
	assert.Equal(t, other, MapPgError(other))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
}

func TestGetUserMessage(t *testing.T) {
	cases := map[error]string{
		&ValidationError{}:                            "error.validation",
		ErrNotFound:                                   "error.notFound",
		Detail(ErrInvalidBundle, "duplicate product"): "error.offer.invalidSelection",
		fmt.Errorf("x: %w", ErrCannotContactOwn):      "error.marketplace.ownListing",
		&pgconn.PgError{Code: "23505"}:                "error.conflict",
		errors.New("unexpected"):                      "error.internal",
	}
	for err, want := range cases {
		assert.Equal(t, want, GetUserMessage(err), err.Error())
	}
	assert.Empty(t, GetUserMessage(nil))
}

func TestDetail(t *testing.T) {
	err := fmt.Errorf("pricing: %w", Detail(ErrInvalidBundle, "slot 2: category not allowed"))
	assert.ErrorIs(t, err, ErrInvalidBundle)
	assert.Equal(t, "slot 2: category not allowed", ReasonOf(err))
	assert.Empty(t, ReasonOf(ErrInvalidBundle))
}

type sampleBody struct {
	Email string `json:"email" validate:"required,email"`
	Count int    `json:"count" validate:"gte=1,lte=3"`
}

func TestExtractAndValidateBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com","count":2}`))
	body, err := ExtractAndValidateBody[sampleBody](r)
	require.NoError(t, err)
	assert.Equal(t, 2, body.Count)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","count":9}`))
	_, err = ExtractAndValidateBody[sampleBody](r)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []FieldError{
		{Field: "email", Message: "must be a valid email address"},
		{Field: "count", Message: "must be less than or equal to 3"},
	}, ve.Errors)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com","count":1,"extra":true}`))
	_, err = ExtractAndValidateBody[sampleBody](r)
	assert.Error(t, err)
	assert.False(t, errors.As(err, &ve))
}
