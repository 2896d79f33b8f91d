// Package policy decides who may perform which operation on which collection.
// Every route consults the same static table through Engine.Authorize.
package policy

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/ctxutil"
)

type Op string

const (
	OpList     Op = "list"
	OpRetrieve Op = "retrieve"
	OpCreate   Op = "create"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
)

type Capability int

const (
	NotOffered Capability = iota
	Public
	StaffOnly
	SuperuserOnly
)

const CodeOperationNotAllowed = "operation_not_allowed"

type Rule struct {
	Capability Capability
	// ProtectSelf rejects an actor targeting their own account.
	ProtectSelf bool
}

type Actor struct {
	ID              uuid.UUID
	IsAuthenticated bool
	IsStaff         bool
	IsSuperuser     bool
}

// ActorFromContext builds the actor for the current request; no request data means anonymous.
func ActorFromContext(ctx context.Context) Actor {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return Actor{}
	}
	return Actor{ID: rd.UserID, IsAuthenticated: true, IsStaff: rd.IsStaff, IsSuperuser: rd.IsSuperuser}
}

type Request struct {
	Entity   string
	Op       Op
	Actor    Actor
	TargetID uuid.UUID
}

type key struct {
	entity string
	op     Op
}

type Engine struct {
	rules map[key]Rule
}

func publicRead(staffWrite Capability) map[Op]Rule {
	return map[Op]Rule{
		OpList:     {Capability: Public},
		OpRetrieve: {Capability: Public},
		OpCreate:   {Capability: staffWrite},
		OpUpdate:   {Capability: staffWrite},
		OpDelete:   {Capability: staffWrite},
	}
}

// DefaultTable is the access table for every collection.
func DefaultTable() map[string]map[Op]Rule {
	return map[string]map[Op]Rule{
		content.EntitySermon:       publicRead(StaffOnly),
		content.EntityResource:     publicRead(StaffOnly),
		content.EntitySeries:       publicRead(StaffOnly),
		content.EntityEvent:        publicRead(StaffOnly),
		content.EntityDevotion:     publicRead(StaffOnly),
		content.EntityAnnouncement: publicRead(StaffOnly),
		content.EntityLiveStream:   publicRead(StaffOnly),
		// Open commentary: anyone may write reflections.
		content.EntityReflection: publicRead(Public),
		content.EntityPrayerRequest: {
			OpList:     {Capability: StaffOnly},
			OpRetrieve: {Capability: StaffOnly},
			OpCreate:   {Capability: Public},
			OpDelete:   {Capability: StaffOnly},
		},
		content.EntityStaff: {
			OpCreate: {Capability: SuperuserOnly},
			OpDelete: {Capability: SuperuserOnly, ProtectSelf: true},
		},
	}
}

func NewEngine(table map[string]map[Op]Rule) *Engine {
	e := &Engine{rules: map[key]Rule{}}
	for entity, ops := range table {
		for op, rule := range ops {
			e.rules[key{entity: entity, op: op}] = rule
		}
	}
	return e
}

func NewDefaultEngine() *Engine { return NewEngine(DefaultTable()) }

// Rule returns the rule for an entity and operation. Unknown pairs are NotOffered.
func (e *Engine) Rule(entity string, op Op) Rule {
	return e.rules[key{entity: entity, op: op}]
}

// Authorize returns nil or an *apierr.Error: 400 for self-deletion, 401 for
// anonymous callers, 403 for insufficient privilege, 405 for operations not offered.
func (e *Engine) Authorize(req Request) error {
	rule := e.Rule(req.Entity, req.Op)
	// Self-targeting is rejected before privilege is considered.
	if rule.ProtectSelf && req.Actor.IsAuthenticated && req.TargetID != uuid.Nil && req.TargetID == req.Actor.ID {
		return apierr.SelfDeletionRejected()
	}
	switch rule.Capability {
	case Public:
	case StaffOnly:
		if err := requireAuthenticated(req.Actor); err != nil {
			return err
		}
		if !req.Actor.IsStaff && !req.Actor.IsSuperuser {
			return apierr.Forbidden("", nil)
		}
	case SuperuserOnly:
		if err := requireAuthenticated(req.Actor); err != nil {
			return err
		}
		if !req.Actor.IsSuperuser {
			return apierr.Forbidden("", nil)
		}
	default:
		return apierr.New(http.StatusMethodNotAllowed, CodeOperationNotAllowed,
			fmt.Errorf("%s is not allowed on %s", req.Op, req.Entity))
	}
	return nil
}

func requireAuthenticated(a Actor) error {
	if !a.IsAuthenticated {
		return apierr.Unauthenticated()
	}
	return nil
}

// IsSelfDeletion reports whether err is the self-protecting rejection.
func IsSelfDeletion(err error) bool {
	var ae *apierr.Error
	return errors.As(err, &ae) && ae.Code == apierr.CodeSelfDeletionRejected
}
