package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/maugus0/yushan-platform-frontend-sub001/internal/api"
)

func addListFlags(cmd *cobra.Command, opts *api.ListOptions) {
	cmd.Flags().IntVar(&opts.Page, "page", 0, "page number, starting at 0")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "page size")
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func newNovelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "novels",
		Aliases: []string{"novel"},
		Short:   "Browse and manage novels",
	}
	cmd.AddCommand(newNovelsListCommand(), newNovelsGetCommand(), newNovelsCreateCommand(), newNovelsDeleteCommand())
	return cmd
}

func newNovelsListCommand() *cobra.Command {
	var opts api.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List novels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			page, err := a.svc.Novels.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.render(page, novelPageTable(page))
		},
	}
	addListFlags(cmd, &opts)
	cmd.Flags().IntVar(&opts.Category, "category", 0, "category id")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort field (createTime, viewCnt, avgRating, title)")
	cmd.Flags().StringVar(&opts.Order, "order", "", "asc or desc")
	return cmd
}

func newNovelsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one novel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			novel, err := a.svc.Novels.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(novel, novelTable(novel))
		},
	}
}

func newNovelsCreateCommand() *cobra.Command {
	var in api.NovelInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new novel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			novel, err := a.svc.Novels.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(novel, novelTable(novel))
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "title")
	cmd.Flags().StringVar(&in.Synopsis, "synopsis", "", "synopsis")
	cmd.Flags().IntVar(&in.CategoryID, "category", 1, "category id")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newNovelsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a novel you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Novels.Delete(cmd.Context(), id); err != nil {
				return err
			}
			a.printf("Deleted novel %d\n", id)
			return nil
		},
	}
}

func newChaptersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chapters",
		Aliases: []string{"chapter"},
		Short:   "List and read chapters",
	}

	var opts api.ListOptions
	list := &cobra.Command{
		Use:   "list NOVEL_ID",
		Short: "List the chapters of a novel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := a.svc.Chapters.List(cmd.Context(), id, opts)
			if err != nil {
				return err
			}
			return a.render(page, chapterPageTable(page))
		},
	}
	addListFlags(list, &opts)

	read := &cobra.Command{
		Use:   "read UUID",
		Short: "Print a chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			ch, err := a.svc.Chapters.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.format == formatJSON {
				return a.render(ch, nil)
			}
			a.printf("Chapter %d: %s\n\n%s\n", ch.ChapterNumber, ch.Title, ch.Content)
			return nil
		},
	}

	cmd.AddCommand(list, read)
	return cmd
}

func newReviewsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reviews",
		Aliases: []string{"review"},
		Short:   "Read and write reviews",
	}

	var opts api.ListOptions
	list := &cobra.Command{
		Use:   "list NOVEL_ID",
		Short: "List reviews of a novel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := a.svc.Reviews.List(cmd.Context(), id, opts)
			if err != nil {
				return err
			}
			return a.render(page, reviewPageTable(page))
		},
	}
	addListFlags(list, &opts)

	var in api.ReviewInput
	add := &cobra.Command{
		Use:   "add NOVEL_ID",
		Short: "Review a novel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if in.NovelID, err = parseID(args[0]); err != nil {
				return err
			}
			review, err := a.svc.Reviews.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.printf("Posted review %d\n", review.ID)
			return nil
		},
	}
	add.Flags().IntVar(&in.Rating, "rating", 0, "rating from 1 to 5")
	add.Flags().StringVar(&in.Title, "title", "", "review title")
	add.Flags().StringVar(&in.Content, "content", "", "review text")
	add.Flags().BoolVar(&in.Spoiler, "spoiler", false, "mark as containing spoilers")
	_ = add.MarkFlagRequired("rating")

	like := &cobra.Command{
		Use:   "like REVIEW_ID",
		Short: "Like a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			review, err := a.svc.Reviews.Like(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(review, func(t table.Writer) {
				t.AppendRow(table.Row{review.ID, review.Title, review.LikeCount})
			})
		},
	}

	cmd.AddCommand(list, add, like)
	return cmd
}
