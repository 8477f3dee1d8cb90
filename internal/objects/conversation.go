package objects

import (
	"github.com/GriffinCanCode/slackwire/internal/codec"
	"github.com/GriffinCanCode/slackwire/internal/shared/id"
)

// Conversation is a public channel, private group or direct conversation
type Conversation struct {
	Base
	Name       *string
	IsChannel  bool
	IsGroup    bool
	IsIM       bool
	IsPrivate  bool
	IsArchived bool
	// Created is a Unix time in seconds
	Created *int64
	Creator id.ObjectID
	// User is the other party of a direct conversation
	User       id.ObjectID
	Topic      *Topic
	Purpose    *Topic
	Members    []id.ObjectID
	NumMembers *int64
}

// Topic is a conversation's topic or purpose
type Topic struct {
	Value   string
	Creator id.ObjectID
	// LastSet is a Unix time in seconds
	LastSet int64
}

func (*Conversation) Kind() codec.Kind { return codec.Kind{Family: FamilyConversation} }

func decodeConversation(obj codec.Object, _ *codec.Context) (*Conversation, error) {
	cv := &Conversation{}
	if err := loadBase(obj, &cv.Base); err != nil {
		return nil, err
	}
	var err error
	if cv.Name, err = obj.String("name"); err != nil {
		return nil, err
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"is_channel", &cv.IsChannel},
		{"is_group", &cv.IsGroup},
		{"is_im", &cv.IsIM},
		{"is_private", &cv.IsPrivate},
		{"is_archived", &cv.IsArchived},
	}
	for _, f := range flags {
		if *f.dst, err = obj.Bool(f.key, false); err != nil {
			return nil, err
		}
	}

	if cv.Created, err = obj.Int("created"); err != nil {
		return nil, err
	}
	if cv.Creator, err = loadID(obj, "creator"); err != nil {
		return nil, err
	}
	if cv.User, err = loadID(obj, "user"); err != nil {
		return nil, err
	}
	if cv.Topic, err = decodeTopic(obj, "topic"); err != nil {
		return nil, err
	}
	if cv.Purpose, err = decodeTopic(obj, "purpose"); err != nil {
		return nil, err
	}

	members, err := obj.StringList("members")
	if err != nil {
		return nil, err
	}
	cv.Members = id.ObjectIDs(members)

	if cv.NumMembers, err = obj.Int("num_members"); err != nil {
		return nil, err
	}
	return cv, nil
}

func decodeTopic(obj codec.Object, key string) (*Topic, error) {
	child, err := obj.Child(key)
	if err != nil || child == nil {
		return nil, err
	}
	t := &Topic{}
	if t.Value, err = child.RequiredString("value"); err != nil {
		return nil, codec.AtPath(err, key)
	}
	if t.Creator, err = loadID(child, "creator"); err != nil {
		return nil, codec.AtPath(err, key)
	}
	lastSet, err := child.Int("last_set")
	if err != nil {
		return nil, codec.AtPath(err, key)
	}
	if lastSet != nil {
		t.LastSet = *lastSet
	}
	return t, nil
}

func encodeConversation(cv *Conversation, _ *codec.Context) (codec.Object, error) {
	obj := codec.Object{
		"is_channel":  cv.IsChannel,
		"is_group":    cv.IsGroup,
		"is_im":       cv.IsIM,
		"is_private":  cv.IsPrivate,
		"is_archived": cv.IsArchived,
	}
	saveBase(obj, &cv.Base)
	obj.PutString("name", cv.Name)
	obj.PutInt("created", cv.Created)
	putID(obj, "creator", cv.Creator)
	putID(obj, "user", cv.User)
	if cv.Topic != nil {
		obj["topic"] = encodeTopic(cv.Topic)
	}
	if cv.Purpose != nil {
		obj["purpose"] = encodeTopic(cv.Purpose)
	}
	putList(obj, "members", stringsToAny(id.Strings(cv.Members)))
	obj.PutInt("num_members", cv.NumMembers)
	return obj, nil
}

func encodeTopic(t *Topic) codec.Object {
	obj := codec.Object{"value": t.Value, "last_set": t.LastSet}
	putID(obj, "creator", t.Creator)
	return obj
}
