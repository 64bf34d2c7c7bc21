/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/YF-George/group-web/internal/entity"
	"github.com/YF-George/group-web/internal/feed"
	"github.com/YF-George/group-web/internal/nlog"
	"github.com/YF-George/group-web/internal/protocol"
	"github.com/YF-George/group-web/internal/repository"

	"github.com/google/uuid"
)

type RosterService interface {
	CreateGroup(bossName string, raidTime time.Time, note, editor string) (*entity.RaidGroup, error)
	GetGroup(id uint) (*entity.RaidGroup, error)
	GetGroups() ([]*entity.RaidGroup, error)
	UpdateGroup(id uint, bossName string, raidTime time.Time, note, status, editor string) (*entity.RaidGroup, error)
	DeleteGroup(id uint, editor string) error

	SaveMember(req protocol.MemberSaveRequest, editor string) (protocol.SaveResult, *entity.Member, error)
	UpdateMemberFields(req protocol.MemberSaveRequest, editor string) (*entity.Member, error)
	ListMembers(groupID uint) ([]*entity.Member, error)
	ListAllMembers() ([]*entity.Member, error)
}

type rosterService struct {
	groups  repository.GroupRepository
	members repository.MemberRepository
	feed    feed.Publisher
	logger  nlog.Logger
}

func NewRosterService(groups repository.GroupRepository, members repository.MemberRepository, publisher feed.Publisher, logger nlog.Logger) RosterService {
	if logger == nil {
		logger = nlog.Discard()
	}
	return &rosterService{
		groups:  groups,
		members: members,
		feed:    publisher,
		logger:  logger,
	}
}

func (s *rosterService) Logf(format string, v ...any) {
	s.logger.Logf(format, v...)
}

// publishMember pushes the fresh member row onto the change feed.
// Marshalling a row we just persisted cannot realistically fail, but a
// feed gap is worth a loud line if it does.
func (s *rosterService) publishMember(eventType feed.EventType, member *entity.Member) {
	raw, err := json.Marshal(member)
	if err != nil {
		s.Logf("Could not serialize member %d for the feed {%v}", member.ID, err)
		return
	}
	s.feed.Publish(feed.ChangeEvent{
		EventID: uuid.New().String(),
		Table:   feed.TableMembers,
		Type:    eventType,
		New:     raw,
	})
}

func (s *rosterService) CreateGroup(bossName string, raidTime time.Time, note, editor string) (*entity.RaidGroup, error) {
	if bossName == "" {
		return nil, fmt.Errorf("a group needs a boss name")
	}

	group := &entity.RaidGroup{
		BossName:     bossName,
		RaidTime:     raidTime,
		Note:         note,
		Status:       entity.GroupStatusRecruiting,
		LastEditedBy: editor,
	}
	if err := s.groups.Create(group); err != nil {
		s.Logf("Group creation failed {%v}", err)
		return nil, err
	}
	s.Logf("Group %d created by %s with %d slots", group.ID, editor, len(group.Members))

	for _, member := range group.Members {
		s.publishMember(feed.INSERT, member)
	}
	return group, nil
}

func (s *rosterService) GetGroup(id uint) (*entity.RaidGroup, error) {
	return s.groups.GetByID(id)
}

func (s *rosterService) GetGroups() ([]*entity.RaidGroup, error) {
	return s.groups.GetAll()
}

func (s *rosterService) UpdateGroup(id uint, bossName string, raidTime time.Time, note, status, editor string) (*entity.RaidGroup, error) {
	switch status {
	case entity.GroupStatusRecruiting, entity.GroupStatusReady, entity.GroupStatusDeparted:
	default:
		return nil, fmt.Errorf("unknown group status %q", status)
	}
	group, err := s.groups.Update(id, bossName, raidTime, note, status, editor)
	if err != nil {
		return nil, err
	}
	s.Logf("Group %d updated by %s", id, editor)
	return group, nil
}

func (s *rosterService) DeleteGroup(id uint, editor string) error {
	members, err := s.members.ListByGroup(id)
	if err != nil {
		return err
	}
	if err := s.groups.Delete(id); err != nil {
		return err
	}
	s.Logf("Group %d deleted by %s", id, editor)

	for _, member := range members {
		s.feed.Publish(feed.ChangeEvent{
			EventID: uuid.New().String(),
			Table:   feed.TableMembers,
			Type:    feed.DELETE,
			OldID:   fmt.Sprint(member.ID),
		})
	}
	return nil
}

func (s *rosterService) SaveMember(req protocol.MemberSaveRequest, editor string) (protocol.SaveResult, *entity.Member, error) {
	result, member, err := s.members.AtomicSave(req, editor)
	if err != nil {
		s.Logf("Member %d save failed {%v}", req.MemberID, err)
		return protocol.SaveResult{}, nil, err
	}
	if !result.Success {
		s.Logf("Member %d save rejected: %s (%s)", req.MemberID, result.Reason, result.Message)
		return result, nil, nil
	}

	s.Logf("Member %d saved by %s", member.ID, editor)
	s.publishMember(feed.UPDATE, member)
	return result, member, nil
}

func (s *rosterService) UpdateMemberFields(req protocol.MemberSaveRequest, editor string) (*entity.Member, error) {
	member, err := s.members.UpdateFields(req, editor)
	if err != nil {
		return nil, err
	}
	s.Logf("Member %d updated by %s over the plain path", member.ID, editor)
	s.publishMember(feed.UPDATE, member)
	return member, nil
}

func (s *rosterService) ListMembers(groupID uint) ([]*entity.Member, error) {
	return s.members.ListByGroup(groupID)
}

func (s *rosterService) ListAllMembers() ([]*entity.Member, error) {
	groups, err := s.groups.GetAll()
	if err != nil {
		return nil, err
	}
	var members []*entity.Member
	for _, group := range groups {
		members = append(members, group.Members...)
	}
	return members, nil
}
