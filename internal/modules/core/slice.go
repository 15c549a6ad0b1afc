package core

func Map[TSource any, TResult any](source []TSource, m func(TSource) TResult) []TResult {
	results := make([]TResult, 0, len(source))
	for _, s := range source {
		results = append(results, m(s))
	}
	return results
}

func Contains[T comparable](source []T, value T) bool {
	for _, s := range source {
		if s == value {
			return true
		}
	}
	return false
}
