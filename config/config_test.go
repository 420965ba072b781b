package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv() map[string]string {
	return FromEntries([]string{
		"SUPABASE_URL=https://project.supabase.co/",
		"SUPABASE_ANON_KEY=anon-key",
		"SUPABASE_DB_HOST=db.project.supabase.co",
		"SUPABASE_DB_USER=postgres",
		"SUPABASE_DB_PASSWORD=secret=with=equals",
		"STORAGE_S3_ACCESS_KEY_ID=access",
		"STORAGE_S3_SECRET_ACCESS_KEY=secret",
		"LLM_API_KEY=llm-key",
		"ACCEPTED_ORIGINS=https://a.example, ,https://b.example",
	})
}

func TestGetters(t *testing.T) {
	c := FromEntries([]string{"A=1", "B=true", "C=", "D=x", "EMPTY"})

	assert.Equal(t, 1, GetInt(c, "A", 7))
	assert.Equal(t, 7, GetInt(c, "D", 7))
	assert.Equal(t, 7, GetInt(nil, "A", 7))
	assert.True(t, GetBool(c, "B", false))
	assert.False(t, GetBool(c, "D", false))
	assert.Equal(t, "fallback", GetString(c, "C", "fallback"))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, "x", GetString(c, "D", "fallback"))
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(context.Background(), validEnv(), nil)
	require.NoError(t, err)

	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, "https://project.supabase.co", s.StorageBaseURL)
	assert.Equal(t, "https://project.supabase.co", s.AuthServiceURL)
	assert.Equal(t, "anon-key", s.ServiceKey)
	assert.Equal(t, "blog-images", s.Storage.Bucket)
	assert.Equal(t, "googleai", s.LLM.Provider)
	assert.Equal(t, int64(10<<20), s.MaxUploadBytes)
	assert.Equal(t, 12*time.Hour, s.WorkspaceTTL)
	assert.False(t, s.CookieSecure, "https storage must not imply secure console cookies")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.AcceptedOrigins)
	assert.Equal(t, "host=db.project.supabase.co user=postgres password=secret=with=equals dbname=postgres port=5432 sslmode=require", s.DB.DSN())
	assert.Empty(t, s.DB.ReplicaDSN())
}

func TestLoad_CookieSecure(t *testing.T) {
	env := validEnv()
	env["COOKIE_SECURE"] = "true"

	s, err := Load(context.Background(), env, nil)
	require.NoError(t, err)
	assert.True(t, s.CookieSecure)
}

func TestLoad_MissingRequired(t *testing.T) {
	env := validEnv()
	delete(env, "SUPABASE_URL")
	delete(env, "SUPABASE_ANON_KEY")

	_, err := Load(context.Background(), env, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfigMissing)
	assert.Contains(t, err.Error(), "STORAGE_BASE_URL")
	assert.Contains(t, err.Error(), "AUTH_SERVICE_URL")
	assert.Contains(t, err.Error(), "SERVICE_KEY")
}

func TestLoad_InvalidProvider(t *testing.T) {
	env := validEnv()
	env["LLM_PROVIDER"] = "markov"

	_, err := Load(context.Background(), env, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_PROVIDER")
	assert.ErrorIs(t, err, errs.ErrConfigInvalid)
	assert.NotErrorIs(t, err, errs.ErrConfigMissing)
}

type fakeParameterGetter struct {
	value string
	err   error
	asked string
}

func (f *fakeParameterGetter) GetParameter(_ context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.asked = aws.ToString(params.Name)
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(f.value)}}, nil
}

func TestLoad_ServiceKeyFromSSM(t *testing.T) {
	env := validEnv()
	env["SERVICE_KEY_SSM_PARAM"] = "/console/service-key"
	getter := &fakeParameterGetter{value: "from-ssm"}

	s, err := Load(context.Background(), env, &SSMResolver{client: getter})
	require.NoError(t, err)
	assert.Equal(t, "from-ssm", s.ServiceKey)
	assert.Equal(t, "/console/service-key", getter.asked)

	getter.err = errors.New("access denied")
	_, err = Load(context.Background(), env, &SSMResolver{client: getter})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfigMissing)
}

func TestSSMResolver_EmptyParameter(t *testing.T) {
	r := &SSMResolver{client: &fakeParameterGetter{}}
	_, err := r.Resolve(context.Background(), "/empty")
	assert.Error(t, err)
}
