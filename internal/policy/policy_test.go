package policy

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/ctxutil"
)

var (
	anon  = Actor{}
	user  = Actor{ID: uuid.New(), IsAuthenticated: true}
	staff = Actor{ID: uuid.New(), IsAuthenticated: true, IsStaff: true}
	super = Actor{ID: uuid.New(), IsAuthenticated: true, IsStaff: true, IsSuperuser: true}
)

func status(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return http.StatusOK
	}
	ae, ok := apierr.As(err)
	require.True(t, ok, "expected *apierr.Error, got %T", err)
	return ae.Status
}

type authCase struct {
	name   string
	entity string
	op     Op
	actor  Actor
	want   int
}

func TestAuthorizeTable(t *testing.T) {
	e := NewDefaultEngine()
	staffWritten := []string{
		content.EntitySermon, content.EntityResource, content.EntitySeries, content.EntityEvent,
		content.EntityDevotion, content.EntityAnnouncement, content.EntityLiveStream,
	}

	cases := []authCase{
		{"reflection anonymous create", content.EntityReflection, OpCreate, anon, 200},
		{"reflection anonymous delete", content.EntityReflection, OpDelete, anon, 200},
		{"prayer anonymous create", content.EntityPrayerRequest, OpCreate, anon, 200},
		{"prayer anonymous list", content.EntityPrayerRequest, OpList, anon, 401},
		{"prayer user list", content.EntityPrayerRequest, OpList, user, 403},
		{"prayer staff list", content.EntityPrayerRequest, OpList, staff, 200},
		{"prayer staff delete", content.EntityPrayerRequest, OpDelete, staff, 200},
		{"prayer update not offered", content.EntityPrayerRequest, OpUpdate, super, 405},
		{"staff create by staff", content.EntityStaff, OpCreate, staff, 403},
		{"staff create by super", content.EntityStaff, OpCreate, super, 200},
		{"staff create anonymous", content.EntityStaff, OpCreate, anon, 401},
		{"staff list not offered", content.EntityStaff, OpList, super, 405},
		{"unknown entity", "hymns", OpList, super, 405},
	}
	for _, entity := range staffWritten {
		cases = append(cases,
			authCase{entity + " anonymous list", entity, OpList, anon, 200},
			authCase{entity + " anonymous create", entity, OpCreate, anon, 401},
			authCase{entity + " user update", entity, OpUpdate, user, 403},
			authCase{entity + " staff delete", entity, OpDelete, staff, 200},
		)
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := e.Authorize(Request{Entity: tc.entity, Op: tc.op, Actor: tc.actor})
			assert.Equal(t, tc.want, status(t, err))
		})
	}
}

func TestSelfDeletionIsValidationError(t *testing.T) {
	e := NewDefaultEngine()
	err := e.Authorize(Request{Entity: content.EntityStaff, Op: OpDelete, Actor: super, TargetID: super.ID})
	require.Error(t, err)
	assert.True(t, IsSelfDeletion(err))
	assert.Equal(t, http.StatusBadRequest, status(t, err))

	err = e.Authorize(Request{Entity: content.EntityStaff, Op: OpDelete, Actor: staff, TargetID: staff.ID})
	assert.True(t, IsSelfDeletion(err), "staff deleting themselves must get the validation rejection")

	err = e.Authorize(Request{Entity: content.EntityStaff, Op: OpDelete, Actor: staff, TargetID: super.ID})
	assert.Equal(t, http.StatusForbidden, status(t, err))

	err = e.Authorize(Request{Entity: content.EntityStaff, Op: OpDelete, Actor: super, TargetID: staff.ID})
	assert.NoError(t, err)
}

func TestActorFromContext(t *testing.T) {
	assert.Equal(t, Actor{}, ActorFromContext(context.Background()))

	id := uuid.New()
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id, IsStaff: true})
	got := ActorFromContext(ctx)
	assert.Equal(t, Actor{ID: id, IsAuthenticated: true, IsStaff: true}, got)
}
