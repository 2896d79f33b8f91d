// Package domain re-exports the persisted models so wiring code can import a single package.
package domain

import (
	"github.com/GyasiAmosKwadwo/elevation-church/internal/domain/auth"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Sermon = content.Sermon
type Resource = content.Resource
type Series = content.Series
type SeriesThought = content.SeriesThought
type Event = content.Event
type Devotion = content.Devotion
type DevotionReflection = content.DevotionReflection
type Reflection = content.Reflection
type PrayerRequest = content.PrayerRequest
type Announcement = content.Announcement
type LiveStream = content.LiveStream
