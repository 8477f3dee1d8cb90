package objects

import (
	"github.com/samber/lo"

	"github.com/GriffinCanCode/slackwire/internal/codec"
)

// User is a workspace member
type User struct {
	Base
	Name    string
	Deleted bool
	// Flags is only sent for active users; nil when Deleted or when the
	// wire carries none of the flag keys
	Flags    *UserFlags
	Profile  *Profile
	HasFiles bool
	IsBot    bool
	TZ       *string
}

// UserFlags are the administrative attributes of an active user
type UserFlags struct {
	Color             *string
	IsAdmin           bool
	IsOwner           bool
	IsPrimaryOwner    bool
	IsRestricted      bool
	IsUltraRestricted bool
}

// Profile holds a user's contact details
type Profile struct {
	FirstName *string
	LastName  *string
	RealName  *string
	Email     *string
	Skype     *string
	Phone     *string
	Images    *ProfileImages
}

// ProfileImages are avatar URLs by pixel size. The wire sends all five or none.
type ProfileImages struct {
	Image24  string
	Image32  string
	Image48  string
	Image72  string
	Image192 string
}

func (*User) Kind() codec.Kind { return codec.Kind{Family: FamilyUser} }

func decodeUser(obj codec.Object, _ *codec.Context) (*User, error) {
	u := &User{}
	if err := loadBase(obj, &u.Base); err != nil {
		return nil, err
	}
	var err error
	if u.Name, err = obj.RequiredString("name"); err != nil {
		return nil, err
	}
	if u.Deleted, err = obj.RequiredBool("deleted"); err != nil {
		return nil, err
	}
	if !u.Deleted && lo.SomeBy(userFlagKeys, obj.Has) {
		if u.Flags, err = decodeUserFlags(obj); err != nil {
			return nil, err
		}
	}

	profile, err := obj.Child("profile")
	if err != nil {
		return nil, err
	}
	if profile != nil {
		if u.Profile, err = decodeProfile(profile); err != nil {
			return nil, codec.AtPath(err, "profile")
		}
	}

	if u.HasFiles, err = obj.Bool("has_files", false); err != nil {
		return nil, err
	}
	if u.IsBot, err = obj.Bool("is_bot", false); err != nil {
		return nil, err
	}
	if u.TZ, err = obj.String("tz"); err != nil {
		return nil, err
	}
	return u, nil
}

// userFlagKeys are the wire keys that carry UserFlags
var userFlagKeys = []string{
	"color",
	"is_admin",
	"is_owner",
	"is_primary_owner",
	"is_restricted",
	"is_ultra_restricted",
}

func decodeUserFlags(obj codec.Object) (*UserFlags, error) {
	f := &UserFlags{}
	var err error
	if f.Color, err = obj.String("color"); err != nil {
		return nil, err
	}
	flags := []struct {
		key string
		dst *bool
	}{
		{"is_admin", &f.IsAdmin},
		{"is_owner", &f.IsOwner},
		{"is_primary_owner", &f.IsPrimaryOwner},
		{"is_restricted", &f.IsRestricted},
		{"is_ultra_restricted", &f.IsUltraRestricted},
	}
	for _, flag := range flags {
		if *flag.dst, err = obj.Bool(flag.key, false); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func decodeProfile(obj codec.Object) (*Profile, error) {
	p := &Profile{}
	fields := []struct {
		key string
		dst **string
	}{
		{"first_name", &p.FirstName},
		{"last_name", &p.LastName},
		{"real_name", &p.RealName},
		{"email", &p.Email},
		{"skype", &p.Skype},
		{"phone", &p.Phone},
	}
	var err error
	for _, f := range fields {
		if *f.dst, err = obj.String(f.key); err != nil {
			return nil, err
		}
	}

	if !obj.Has("image_24") {
		return p, nil
	}
	img := &ProfileImages{}
	images := []struct {
		key string
		dst *string
	}{
		{"image_24", &img.Image24},
		{"image_32", &img.Image32},
		{"image_48", &img.Image48},
		{"image_72", &img.Image72},
		{"image_192", &img.Image192},
	}
	for _, f := range images {
		if *f.dst, err = obj.RequiredString(f.key); err != nil {
			return nil, err
		}
	}
	p.Images = img
	return p, nil
}

func encodeUser(u *User, _ *codec.Context) (codec.Object, error) {
	obj := codec.Object{
		"name":      u.Name,
		"deleted":   u.Deleted,
		"has_files": u.HasFiles,
		"is_bot":    u.IsBot,
	}
	saveBase(obj, &u.Base)
	obj.PutString("tz", u.TZ)

	if f := u.Flags; f != nil && !u.Deleted {
		obj.PutString("color", f.Color)
		obj["is_admin"] = f.IsAdmin
		obj["is_owner"] = f.IsOwner
		obj["is_primary_owner"] = f.IsPrimaryOwner
		obj["is_restricted"] = f.IsRestricted
		obj["is_ultra_restricted"] = f.IsUltraRestricted
	}

	if p := u.Profile; p != nil {
		profile := codec.Object{}
		profile.PutString("first_name", p.FirstName)
		profile.PutString("last_name", p.LastName)
		profile.PutString("real_name", p.RealName)
		profile.PutString("email", p.Email)
		profile.PutString("skype", p.Skype)
		profile.PutString("phone", p.Phone)
		if img := p.Images; img != nil {
			profile["image_24"] = img.Image24
			profile["image_32"] = img.Image32
			profile["image_48"] = img.Image48
			profile["image_72"] = img.Image72
			profile["image_192"] = img.Image192
		}
		obj["profile"] = profile
	}
	return obj, nil
}
