package patients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository_CreateAndFind(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &CreatePatientRequest{Name: " John Doe ", Phone: "08012345678"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "John Doe", created.Name)
	require.NotNil(t, created.FirstVisit)

	found, err := repo.FindByPhone(ctx, "08012345678")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "08012345678", byID.Phone)
}

func TestInMemoryRepository_ExactPhoneMatchOnly(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &CreatePatientRequest{Name: "Jane", Phone: "08023456789"})
	require.NoError(t, err)

	_, err = repo.FindByPhone(ctx, "8023456789")
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestInMemoryRepository_RejectsDuplicatePhone(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, &CreatePatientRequest{Name: "Jane", Phone: "08023456789"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &CreatePatientRequest{Name: "Janet", Phone: "08023456789"})
	assert.ErrorIs(t, err, ErrDuplicatePhone)
	assert.Equal(t, 1, repo.Count())
}

func TestCreatePatientRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreatePatientRequest
		wantErr error
	}{
		{name: "valid", req: CreatePatientRequest{Name: "Ada", Phone: "08034567890"}},
		{name: "missing name", req: CreatePatientRequest{Phone: "08034567890"}, wantErr: ErrInvalidName},
		{name: "short phone", req: CreatePatientRequest{Name: "Ada", Phone: "12345"}, wantErr: ErrInvalidPhone},
		{name: "phone with letters", req: CreatePatientRequest{Name: "Ada", Phone: "0803456789x"}, wantErr: ErrInvalidPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
