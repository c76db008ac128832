package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/fantasy --output domain/fantasy --outpkg fantasymock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ScoreRepository --dir ../domain/fantasy --output domain/fantasy --outpkg fantasymock --filename score_repository_mock.go
