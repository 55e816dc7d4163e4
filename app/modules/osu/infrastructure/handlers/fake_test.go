package osuhandlers

import (
	"context"
	"strings"

	osuservice "github.com/moorad/the-beautiful-bot/app/modules/osu/application"
)

// FakeOsuService provides a programmable stub for osuservice.Service.
type FakeOsuService struct {
	trace []string

	ResolveUserFunc func(ctx context.Context, authorID string, tokens []string) (osuservice.Resolution, error)
	BestFunc        func(ctx context.Context, authorID string, tokens []string) (osuservice.BestResult, error)
	RecentFunc      func(ctx context.Context, authorID string, tokens []string) (osuservice.RecentResult, error)
	UserFunc        func(ctx context.Context, authorID string, tokens []string) (osuservice.UserResult, error)
	LinkFunc        func(ctx context.Context, authorID, channelID string, tokens []string) (osuservice.LinkResult, error)
	PingFunc        func(ctx context.Context) []osuservice.Latency
}

var _ osuservice.Service = (*FakeOsuService)(nil)

func NewFakeOsuService() *FakeOsuService {
	return &FakeOsuService{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeOsuService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeOsuService) record(step string, tokens []string) {
	if len(tokens) > 0 {
		step += ":" + strings.Join(tokens, " ")
	}
	f.trace = append(f.trace, step)
}

func (f *FakeOsuService) ResolveUser(ctx context.Context, authorID string, tokens []string) (osuservice.Resolution, error) {
	f.record("ResolveUser", tokens)
	if f.ResolveUserFunc != nil {
		return f.ResolveUserFunc(ctx, authorID, tokens)
	}
	return osuservice.Resolution{}, nil
}

func (f *FakeOsuService) Best(ctx context.Context, authorID string, tokens []string) (osuservice.BestResult, error) {
	f.record("Best", tokens)
	if f.BestFunc != nil {
		return f.BestFunc(ctx, authorID, tokens)
	}
	return osuservice.BestResult{}, nil
}

func (f *FakeOsuService) Recent(ctx context.Context, authorID string, tokens []string) (osuservice.RecentResult, error) {
	f.record("Recent", tokens)
	if f.RecentFunc != nil {
		return f.RecentFunc(ctx, authorID, tokens)
	}
	return osuservice.RecentResult{}, nil
}

func (f *FakeOsuService) User(ctx context.Context, authorID string, tokens []string) (osuservice.UserResult, error) {
	f.record("User", tokens)
	if f.UserFunc != nil {
		return f.UserFunc(ctx, authorID, tokens)
	}
	return osuservice.UserResult{}, nil
}

func (f *FakeOsuService) Link(ctx context.Context, authorID, channelID string, tokens []string) (osuservice.LinkResult, error) {
	f.record("Link", tokens)
	if f.LinkFunc != nil {
		return f.LinkFunc(ctx, authorID, channelID, tokens)
	}
	return osuservice.LinkResult{}, nil
}

func (f *FakeOsuService) Ping(ctx context.Context) []osuservice.Latency {
	f.record("Ping", nil)
	if f.PingFunc != nil {
		return f.PingFunc(ctx)
	}
	return nil
}

// FakeMetrics records every command outcome as "command:outcome".
type FakeMetrics struct {
	trace []string
}

func (f *FakeMetrics) RecordCommand(_ context.Context, command, outcome string) {
	f.trace = append(f.trace, command+":"+outcome)
}

func (f *FakeMetrics) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}
