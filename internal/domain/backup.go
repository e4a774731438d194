package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/compress"
	"github.com/questx-lab/xpbot/pkg/storage"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

type BackupArtifact struct {
	ID string
	// Data is the zlib-compressed JSON of the backup.
	Data []byte
	// URL is empty when the artifact could not be uploaded, UploadErr tells
	// why.
	URL       string
	UploadErr error
}

// Backuper writes the pre-image of a community: members, invite links and
// invited users.
type Backuper struct {
	memberRepo      repository.MemberRepository
	inviteLinkRepo  repository.InviteLinkRepository
	invitedUserRepo repository.InvitedUserRepository
	storage         storage.Storage
}

func NewBackuper(
	memberRepo repository.MemberRepository,
	inviteLinkRepo repository.InviteLinkRepository,
	invitedUserRepo repository.InvitedUserRepository,
	storage storage.Storage,
) *Backuper {
	return &Backuper{
		memberRepo:      memberRepo,
		inviteLinkRepo:  inviteLinkRepo,
		invitedUserRepo: invitedUserRepo,
		storage:         storage,
	}
}

// Write builds the backup artifact and tries to upload it. A failed upload
// does not fail Write, the caller can still hand the artifact out another way.
func (b *Backuper) Write(ctx context.Context, communityID int64) (*BackupArtifact, error) {
	backup, err := b.build(ctx, communityID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(backup)
	if err != nil {
		return nil, err
	}

	data, err = compress.Compress(data)
	if err != nil {
		return nil, err
	}

	artifact := &BackupArtifact{ID: backup.ID, Data: data}
	artifact.URL, artifact.UploadErr = b.upload(ctx, backup, data)
	return artifact, nil
}

func (b *Backuper) build(ctx context.Context, communityID int64) (*model.Backup, error) {
	members, err := b.memberRepo.GetList(ctx, communityID)
	if err != nil {
		return nil, err
	}

	links, err := b.inviteLinkRepo.GetList(ctx, communityID)
	if err != nil {
		return nil, err
	}

	invited, err := b.invitedUserRepo.GetList(ctx, communityID)
	if err != nil {
		return nil, err
	}

	return &model.Backup{
		ID:           uuid.NewString(),
		CommunityID:  communityID,
		CreatedAt:    time.Now().UTC(),
		Members:      members,
		InviteLinks:  links,
		InvitedUsers: invited,
	}, nil
}

func (b *Backuper) upload(ctx context.Context, backup *model.Backup, data []byte) (string, error) {
	if b.storage == nil {
		return "", fmt.Errorf("no storage configured")
	}

	cfg := xcontext.Configs(ctx).Reset
	resp, err := b.storage.Upload(ctx, &storage.UploadObject{
		Bucket:   cfg.BackupBucket,
		Prefix:   cfg.BackupPrefix,
		FileName: backupFileName(backup),
		Mime:     "application/zlib",
		Data:     data,
	})
	if err != nil {
		return "", err
	}

	return resp.Url, nil
}

func backupFileName(backup *model.Backup) string {
	return fmt.Sprintf("%d-%s-%s.json.zlib",
		backup.CommunityID, backup.CreatedAt.Format("20060102T150405"), backup.ID)
}
