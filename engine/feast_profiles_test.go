package engine

import (
	"context"
	"testing"

	"github.com/pitchside/drillkit/core"
	"github.com/pitchside/drillkit/feast"
)

type stubFeastClient struct {
	resp *feast.GetOnlineFeaturesResponse
	err  error
}

func (c *stubFeastClient) GetOnlineFeatures(_ context.Context, _ *feast.GetOnlineFeaturesRequest) (*feast.GetOnlineFeaturesResponse, error) {
	return c.resp, c.err
}

func (c *stubFeastClient) Close() error { return nil }

func TestFeastProfileSource(t *testing.T) {
	client := &stubFeastClient{resp: &feast.GetOnlineFeaturesResponse{
		FeatureVectors: []feast.FeatureVector{
			{Values: map[string]interface{}{
				FeaturePosition:   "striker",
				FeatureExperience: "advanced",
				FeatureAge:        float64(17),
				FeatureGoals:      "finishing, ball control",
			}},
			{Values: map[string]interface{}{}},
		},
	}}

	src := &FeastProfileSource{Client: client, Project: "drillkit"}
	profiles, err := src.Profiles(context.Background(), []string{"amy", "ghost"})
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 {
		t.Fatalf("profiles = %d entries, want 1", len(profiles))
	}
	amy := profiles["amy"]
	if amy == nil || amy.Position != "striker" || amy.ExperienceLevel != "advanced" || amy.Age != 17 {
		t.Fatalf("amy profile = %+v", amy)
	}
	if len(amy.Goals) != 2 || amy.Goals[0] != "finishing" || amy.Goals[1] != "ball control" {
		t.Fatalf("goals = %v", amy.Goals)
	}
}

func TestFeastProfileSourceNoClient(t *testing.T) {
	src := &FeastProfileSource{}
	_, err := src.Profiles(context.Background(), []string{"amy"})
	if !core.IsUnavailable(err) {
		t.Fatalf("err = %v, want UNAVAILABLE", err)
	}
}

func TestFeastProfileSourceEmptyUserList(t *testing.T) {
	src := &FeastProfileSource{Client: &stubFeastClient{}}
	profiles, err := src.Profiles(context.Background(), nil)
	if err != nil || len(profiles) != 0 {
		t.Fatalf("profiles=%v err=%v", profiles, err)
	}
}
