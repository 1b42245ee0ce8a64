package apiservice

import (
	"context"

	"github.com/wayss000/Inner-See-sub000/internal/apiclient"
	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/fallback"
)

// GetTestTypes lists every test type.
func (s *Service) GetTestTypes(ctx context.Context) Result[[]domain.TestType] {
	const op = "GetTestTypes"
	if s.online(ctx) {
		var out []domain.TestType
		src, err := s.fetch(ctx, "/test-types", nil, &out, apiclient.WithCache("test-types"), apiclient.WithTTL(testTypesTTL))
		if err == nil {
			for i := range out {
				out[i].ID = domain.CanonicalTestTypeID(out[i].ID)
			}
			s.served(op, src)
			return Result[[]domain.TestType]{Data: out, Source: src}
		}
		s.fellBack(op, err)
	} else {
		s.fellBack(op, nil)
	}
	return Result[[]domain.TestType]{Data: fallback.TestTypes(), Source: SourceFallback}
}

// GetTestTypeByID returns one test type. Data is nil when neither the API nor
// the fallback set knows the id. The custom test type is always synthesized.
func (s *Service) GetTestTypeByID(ctx context.Context, id string) Result[*domain.TestType] {
	const op = "GetTestTypeByID"
	id = domain.CanonicalTestTypeID(id)
	if id == domain.CustomTestTypeID {
		ct := domain.CustomTestType()
		s.served(op, SourceLocal)
		return Result[*domain.TestType]{Data: &ct, Source: SourceLocal}
	}

	if s.online(ctx) {
		var out domain.TestType
		src, err := s.fetch(ctx, "/test-types/"+escape(id), nil, &out,
			apiclient.WithCache("test-type:"+id), apiclient.WithTTL(testTypesTTL))
		if err == nil {
			out.ID = domain.CanonicalTestTypeID(out.ID)
			s.served(op, src)
			return Result[*domain.TestType]{Data: &out, Source: src}
		}
		s.fellBack(op, err)
	} else {
		s.fellBack(op, nil)
	}

	if tt, ok := fallback.TestType(id); ok {
		return Result[*domain.TestType]{Data: &tt, Source: SourceFallback}
	}
	return Result[*domain.TestType]{Source: SourceFallback}
}

// GetQuestionsByTestType returns one page (1-based) of a test type's
// questions. A non-positive pageSize asks for every question.
func (s *Service) GetQuestionsByTestType(ctx context.Context, testTypeID string, page, pageSize int) Result[[]domain.Question] {
	const op = "GetQuestionsByTestType"
	testTypeID = domain.CanonicalTestTypeID(testTypeID)
	if s.online(ctx) {
		params := map[string]any{"testTypeId": testTypeID}
		if pageSize > 0 {
			params["page"] = page
			params["pageSize"] = pageSize
		}
		resp, err := s.api.Get(ctx, "/questions", params, apiclient.WithCache(""), apiclient.WithTTL(questionsTTL))
		if err == nil {
			src := SourceRemote
			if resp.Cached {
				src = SourceCached
			}
			s.served(op, src)
			return Result[[]domain.Question]{Data: normalizeQuestions(decodeList[domain.Question](resp.Data)), Source: src}
		}
		s.fellBack(op, err)
	} else {
		s.fellBack(op, nil)
	}
	return Result[[]domain.Question]{Data: fallback.Page(testTypeID, page, pageSize), Source: SourceFallback}
}

// GetQuestionByID returns one question, or nil Data when unknown.
func (s *Service) GetQuestionByID(ctx context.Context, id string) Result[*domain.Question] {
	const op = "GetQuestionByID"
	if s.online(ctx) {
		var out domain.Question
		src, err := s.fetch(ctx, "/questions/"+escape(id), nil, &out)
		if err == nil {
			out.TestTypeID = domain.CanonicalTestTypeID(out.TestTypeID)
			s.served(op, src)
			return Result[*domain.Question]{Data: &out, Source: src}
		}
		s.fellBack(op, err)
	} else {
		s.fellBack(op, nil)
	}
	if q, ok := fallback.Question(id); ok {
		return Result[*domain.Question]{Data: &q, Source: SourceFallback}
	}
	return Result[*domain.Question]{Source: SourceFallback}
}

// SearchQuestions finds questions whose text contains keyword. An empty
// testTypeID searches every test type.
func (s *Service) SearchQuestions(ctx context.Context, keyword, testTypeID string) Result[[]domain.Question] {
	const op = "SearchQuestions"
	testTypeID = domain.CanonicalTestTypeID(testTypeID)
	if s.online(ctx) {
		params := map[string]any{"keyword": keyword}
		if testTypeID != "" {
			params["testTypeId"] = testTypeID
		}
		resp, err := s.api.Get(ctx, "/questions/search", params)
		if err == nil {
			s.served(op, SourceRemote)
			return Result[[]domain.Question]{Data: normalizeQuestions(decodeList[domain.Question](resp.Data)), Source: SourceRemote}
		}
		s.fellBack(op, err)
	} else {
		s.fellBack(op, nil)
	}
	return Result[[]domain.Question]{Data: fallback.Search(keyword, testTypeID), Source: SourceFallback}
}

// GetRecommendedQuestions returns up to count questions for a test type.
func (s *Service) GetRecommendedQuestions(ctx context.Context, testTypeID string, count int) Result[[]domain.Question] {
	const op = "GetRecommendedQuestions"
	testTypeID = domain.CanonicalTestTypeID(testTypeID)
	if s.online(ctx) {
		params := map[string]any{"testTypeId": testTypeID}
		if count > 0 {
			params["count"] = count
		}
		resp, err := s.api.Get(ctx, "/questions/recommended", params)
		if err == nil {
			s.served(op, SourceRemote)
			return Result[[]domain.Question]{Data: normalizeQuestions(decodeList[domain.Question](resp.Data)), Source: SourceRemote}
		}
		s.fellBack(op, err)
	} else {
		s.fellBack(op, nil)
	}
	return Result[[]domain.Question]{Data: fallback.Recommended(testTypeID, count), Source: SourceFallback}
}

// GetQuestionCountByTestType returns the number of questions of a test type.
func (s *Service) GetQuestionCountByTestType(ctx context.Context, testTypeID string) Result[int] {
	const op = "GetQuestionCountByTestType"
	testTypeID = domain.CanonicalTestTypeID(testTypeID)
	if s.online(ctx) {
		var out int
		src, err := s.fetch(ctx, "/test-types/"+escape(testTypeID)+"/question-count", nil, &out,
			apiclient.WithCache("question-count:"+testTypeID), apiclient.WithTTL(countTTL))
		if err == nil {
			s.served(op, src)
			return Result[int]{Data: out, Source: src}
		}
		s.fellBack(op, err)
	} else {
		s.fellBack(op, nil)
	}
	return Result[int]{Data: fallback.Count(testTypeID), Source: SourceFallback}
}

// HasMoreQuestions reports whether a page after the given one exists.
func (s *Service) HasMoreQuestions(ctx context.Context, testTypeID string, page, pageSize int) Result[bool] {
	const op = "HasMoreQuestions"
	testTypeID = domain.CanonicalTestTypeID(testTypeID)
	if s.online(ctx) {
		var out bool
		src, err := s.fetch(ctx, "/questions/has-more", map[string]any{
			"testTypeId": testTypeID,
			"page":       page,
			"pageSize":   pageSize,
		}, &out)
		if err == nil {
			s.served(op, src)
			return Result[bool]{Data: out, Source: src}
		}
		s.fellBack(op, err)
	} else {
		s.fellBack(op, nil)
	}
	return Result[bool]{Data: fallback.HasMore(testTypeID, page, pageSize), Source: SourceFallback}
}

func normalizeQuestions(qs []domain.Question) []domain.Question {
	for i := range qs {
		qs[i].TestTypeID = domain.CanonicalTestTypeID(qs[i].TestTypeID)
	}
	return qs
}
