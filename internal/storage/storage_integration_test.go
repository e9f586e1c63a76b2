package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	t.Run("регистрация и чтение пользователя", func(t *testing.T) {
		uid, err := storage.RegisterUser(context.Background(), models.User{
			Email:        "new@example.com",
			Username:     "newuser",
			PasswordHash: "hashedpassword",
			Role:         "user",
		})
		require.NoError(t, err)
		require.NotEmpty(t, uid)

		byName, err := storage.GetUserByUsername(context.Background(), "newuser")
		require.NoError(t, err)
		assert.Equal(t, uid, byName.UID)
		assert.Equal(t, "new@example.com", byName.Email)
		assert.False(t, byName.IsPremium)
		assert.Equal(t, 0, byName.DailyViews)

		byUID, err := storage.GetUserByUID(context.Background(), uid)
		require.NoError(t, err)
		assert.Equal(t, "newuser", byUID.Username)
	})

	t.Run("несуществующий пользователь", func(t *testing.T) {
		_, err := storage.GetUserByUsername(context.Background(), "ghost")
		require.ErrorIs(t, err, ErrUserNotFound)

		_, err = storage.GetUserByUID(context.Background(), NewTestUID())
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("повторная регистрация с тем же username", func(t *testing.T) {
		_, err := storage.RegisterUser(context.Background(), models.User{
			Email:        "dup1@example.com",
			Username:     "dupuser",
			PasswordHash: "hashedpassword",
			Role:         "user",
		})
		require.NoError(t, err)

		_, err = storage.RegisterUser(context.Background(), models.User{
			Email:        "dup2@example.com",
			Username:     "dupuser",
			PasswordHash: "hashedpassword",
			Role:         "user",
		})
		require.Error(t, err)
	})
}

func TestStorage_Directory(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	sunriseID := NewTestUID()
	moonlightID := NewTestUID()
	contactAnna := NewTestUID()
	factory.CreateAgency(t, sunriseID, "Sunrise Realty", "NY", "New York")
	factory.CreateAgency(t, moonlightID, "Moonlight Estates", "CA", "Los Angeles")
	factory.CreateContact(t, contactAnna, sunriseID, "Anna", "Smith")
	factory.CreateContact(t, NewTestUID(), moonlightID, "Boris", "Ivanov")

	t.Run("список агентств", func(t *testing.T) {
		agencies, err := storage.ListAgencies(context.Background(), 100)
		require.NoError(t, err)
		require.Len(t, agencies, 2)
		// Отсортированы по имени
		assert.Equal(t, "Moonlight Estates", agencies[0].Name)
		assert.Equal(t, "Sunrise Realty", agencies[1].Name)
	})

	t.Run("список контактов с данными агентства", func(t *testing.T) {
		contacts, err := storage.ListContacts(context.Background(), 100, 0)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, "Anna", contacts[0].FirstName)
		assert.Equal(t, "Sunrise Realty", contacts[0].AgencyName)
		assert.Equal(t, "NY", contacts[0].AgencyState)
	})

	t.Run("пагинация контактов", func(t *testing.T) {
		contacts, err := storage.ListContacts(context.Background(), 1, 1)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "Boris", contacts[0].FirstName)
	})

	t.Run("чтение одного контакта", func(t *testing.T) {
		contact, err := storage.GetContact(context.Background(), contactAnna)
		require.NoError(t, err)
		assert.Equal(t, "Anna", contact.FirstName)
		assert.Equal(t, sunriseID, contact.AgencyID)
	})

	t.Run("несуществующий контакт", func(t *testing.T) {
		_, err := storage.GetContact(context.Background(), NewTestUID())
		require.ErrorIs(t, err, ErrContactNotFound)
	})

	t.Run("синтаксически некорректный идентификатор контакта", func(t *testing.T) {
		_, err := storage.GetContact(context.Background(), "missing")
		require.ErrorIs(t, err, ErrContactNotFound)
	})
}
