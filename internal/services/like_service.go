package services

import "movierental/internal/repos"

type LikeService struct {
	Repo *repos.LikeRepo
}

func NewLikeService(r *repos.LikeRepo) *LikeService { return &LikeService{Repo: r} }

func (s *LikeService) Like(movieID, userID string) error {
	return s.Repo.Add(movieID, userID)
}

func (s *LikeService) Unlike(movieID, userID string) error {
	return s.Repo.Remove(movieID, userID)
}

func (s *LikeService) Count(movieID string) (int, error) {
	return s.Repo.Count(movieID)
}
